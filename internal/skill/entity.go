// AngelaMos | 2026
// entity.go

package skill

import (
	"time"
)

type Skill struct {
	ID          string    `db:"id"`
	Slug        string    `db:"slug"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Author      string    `db:"author"`
	Downloads   int64     `db:"downloads"`
	CreatedAt   time.Time `db:"created_at"`
}
