package gen

import "time"

type Drink struct {
	ID        int64
	Title     string
	Recipe    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
