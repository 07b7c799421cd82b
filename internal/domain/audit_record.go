package domain

// AuditRecord pairs a stored observation with the result of decoding its raw
// payload again.
type AuditRecord struct {
	Observation
	PayloadValid bool
	Consistent   bool
	Issue        string
}
