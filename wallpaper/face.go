package wallpaper

import "context"

// Source produces the image file to apply and returns its path.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}
