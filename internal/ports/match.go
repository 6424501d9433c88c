// internal/ports/match.go
package ports

import (
	"strings"

	"github.com/tamzrod/bootcom/internal/serialport"
)

// Present reports whether some identifier starts with path.
// Enumerators may decorate the raw path, so equality is too strict.
func Present(ids []string, path string) bool {
	if path == "" {
		return false
	}
	for _, id := range ids {
		if strings.HasPrefix(id, path) {
			return true
		}
	}
	return false
}

func list(e serialport.Enumerator) ([]string, error) {
	devs, err := e.List()
	if err != nil {
		return nil, err
	}
	return serialport.IDs(devs), nil
}
