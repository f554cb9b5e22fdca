package core

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateName returns a unique resource name with the given prefix.
// Generated resources (procedural meshes, buffers) are named this way so
// log lines can be traced back to a single instance.
func GenerateName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}
