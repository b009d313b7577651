package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session JTI.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// LessonPayloadKey returns the cache key for a lesson's student-facing paper
// (questions without correct indices).
func (r *CacheKeyStruct) LessonPayloadKey(lessonID string) string {
	return fmt.Sprintf("lesson:%s:payload", lessonID)
}

// LessonAnswerKey returns the cache key for a lesson's answer key hash.
func (r *CacheKeyStruct) LessonAnswerKey(lessonID string) string {
	return fmt.Sprintf("lesson:%s:key", lessonID)
}

// AttemptAnswersKey returns the cache key for a student's autosaved answers
// on an active quiz attempt.
func (r *CacheKeyStruct) AttemptAnswersKey(studentID int, lessonID string) string {
	return fmt.Sprintf("student:%d:lesson:%s:answers", studentID, lessonID)
}

// AttemptDeadlineKey returns the cache key for an attempt's deadline (Unix).
func (r *CacheKeyStruct) AttemptDeadlineKey(studentID int, lessonID string) string {
	return fmt.Sprintf("student:%d:lesson:%s:deadline", studentID, lessonID)
}

// ChatHistoryKey returns the cache key for a student's assistant history.
func (r *CacheKeyStruct) ChatHistoryKey(studentID int) string {
	return fmt.Sprintf("student:%d:chat", studentID)
}

// StudentEventsChannel returns the Redis PubSub channel name for a student's
// realtime events (wallet credits, progress updates).
func (r *CacheKeyStruct) StudentEventsChannel(studentID int) string {
	return fmt.Sprintf("student:%d:events", studentID)
}

var CacheKey = NewCacheKeyStruct()
