// Package qrcode renders QR code images, primarily for MFA enrollment where
// the otpauth:// URI is displayed for authenticator apps to scan.
//
//	uri := "otpauth://totp/Acme:alice@example.com?secret=..."
//	img, err := qrcode.DataURI(uri, 0) // data:image/png;base64,...
//
// Generate returns raw PNG bytes when the caller serves the image directly.
package qrcode
