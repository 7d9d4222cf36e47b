package mfaauth

// verifyRequest carries a code for verification. IsBackupCode switches the
// check from TOTP to single-use recovery codes.
type verifyRequest struct {
	Code         string `json:"code"`
	IsBackupCode bool   `json:"isBackupCode,omitempty"`
}

type verifyResponse struct {
	Success bool `json:"success"`
}

type backupCodesResponse struct {
	BackupCodes []string `json:"backupCodes"`
}

type errorResponse struct {
	Error string `json:"error"`
}
