package models

// UserData is the public account record created once per vault at
// registration and mutated by passphrase rotation and the first-login
// transition.
type UserData struct {
	// Username is the UTF-8 account name chosen at registration.
	Username string `json:"username"`

	// HashedPassword is the Base64-encoded, salted digest of the current
	// passphrase (internal/identity.PasswordAndHash). Recomputed whenever
	// the passphrase changes; SaltPassword itself never changes.
	HashedPassword string `json:"hashed_password"`

	// PasswordInfoFilename and FileInfoFilename are deterministic filenames
	// derived from UUID (internal/identity.GenerateStringFileUUIDFromStringUUID),
	// naming the password-instance and file-instance stores on disk.
	PasswordInfoFilename string `json:"password_info_filename"`
	FileInfoFilename     string `json:"file_info_filename"`

	// IsFirstLogin is true until the first successful login completes,
	// after which internal/identity.FirstLoginLogic flips it to false.
	IsFirstLogin bool `json:"is_first_login"`
}
