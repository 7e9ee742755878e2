package config

import "path/filepath"

// StorageOptions locates the on-disk data. AccountsDir, DocumentsDir and
// AuditLog are resolved against DataDir unless they are absolute.
type StorageOptions struct {
	DataDir      string `validate:"required"`
	AccountsDir  string `validate:"required"`
	DocumentsDir string `validate:"required"`
	AuditLog     string `validate:"required"`
}

func (o StorageOptions) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(o.DataDir, p)
}

// AccountsPath is the root directory of the account records.
func (o StorageOptions) AccountsPath() string { return o.resolve(o.AccountsDir) }

// DocumentsPath is the root directory of the document records.
func (o StorageOptions) DocumentsPath() string { return o.resolve(o.DocumentsDir) }

// AuditLogPath is the audit log file.
func (o StorageOptions) AuditLogPath() string { return o.resolve(o.AuditLog) }
