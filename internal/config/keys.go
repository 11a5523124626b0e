package config

import "fmt"

type CacheKeyStruct struct{}

// AccessCodeKey returns the Redis key holding a student's one-time access code.
func (r *CacheKeyStruct) AccessCodeKey(externalID string) string {
	return fmt.Sprintf("access:otp:%s", externalID)
}

var CacheKey = &CacheKeyStruct{}

type WorkerKeyStruct struct {
	NotifyQueue string
}

var WorkerKey = &WorkerKeyStruct{
	NotifyQueue: "notify_email_queue",
}
