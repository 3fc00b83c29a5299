package mysql

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxSlugLength = 180

// uniqueSlug derives a slug from source that no other row of mdl uses, appending
// -2, -3, ... on collision. Rows with excludeID are ignored so a row may keep its own slug.
func uniqueSlug(tx *gorm.DB, mdl any, source string, excludeID int64) (string, error) {
	base := slug.Make(source)
	if len(base) > maxSlugLength {
		base = strings.TrimRight(base[:maxSlugLength], "-")
	}
	if base == "" {
		base = strings.SplitN(uuid.NewString(), "-", 2)[0]
	}

	candidate := base
	for i := 2; ; i++ {
		var n int64
		q := tx.Model(mdl).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
