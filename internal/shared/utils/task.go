package utils

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// MarshalTask JSON-encodes payload into an asynq task of the given type
func MarshalTask(taskType string, payload interface{}) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, b), nil
}

// UnmarshalTask decodes the task's JSON payload into dest
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	return nil
}
