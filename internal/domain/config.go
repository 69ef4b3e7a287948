package domain

// KeyPrefix namespaces every Redis/Valkey key owned by the service.
const KeyPrefix = "jobscout:"

// Redis layout of the postings written by the external embedding job.
const (
	PostingKeyPrefix = KeyPrefix + "posting:"
	PostingIndex     = KeyPrefix + "postings:idx"
)
