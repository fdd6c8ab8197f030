package relay

import "fmt"

// timeSince renders an elapsed duration in seconds as its largest whole
// unit, truncating. Only hours and minutes get singular wording.
func timeSince(seconds int64) string {
	switch {
	case seconds > 31536000:
		return fmt.Sprintf("%d years", seconds/31536000)
	case seconds > 2592000:
		return fmt.Sprintf("%d months", seconds/2592000)
	case seconds > 86400:
		return fmt.Sprintf("%d days", seconds/86400)
	case seconds > 3600:
		n := seconds / 3600
		if n == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", n)
	case seconds > 60:
		n := seconds / 60
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	default:
		return fmt.Sprintf("%d seconds", seconds)
	}
}
