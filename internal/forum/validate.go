// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"strings"
	"unicode/utf8"
)

// Field limits for drafts and patches.
const (
	maxCategoryNameLen = 100
	maxTitleLen        = 300
	maxDescriptionLen  = 10_000
)

// requireText trims v and checks it is present and within limit.
func requireText(op, field, v string, limit int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", newError(KindInvalidDraft, op, "%s is required", field)
	}
	if utf8.RuneCountInString(v) > limit {
		return "", newError(KindInvalidDraft, op, "%s is too long (max %d characters)", field, limit)
	}
	return v, nil
}
