package ports

import "time"

// Clock supplies the current time. Injected so tests can pin it.
type Clock interface {
	Now() time.Time
}
