package storage

import (
	"mime"
	"path"
	"strconv"
	"strings"
	"time"
)

// Object keys look like <category>/<yyyy>/<mm>/<dd>/<base>.<ext>, every
// segment reduced to lowercase ASCII letters, digits, '-' and '_'.

func segmentRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return r
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	case r == ' ':
		return '-'
	default:
		return -1
	}
}

func cleanSegment(value string) string {
	return strings.Trim(strings.Map(segmentRune, strings.TrimSpace(value)), "-_")
}

// ObjectBaseName joins the cleaned parts with '-'. Hyphens inside a part, such
// as those of a uuid, are kept.
func ObjectBaseName(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = cleanSegment(part); part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return strings.Join(cleaned, "-")
}

func normalizeExtension(ext string) string {
	if ext = cleanSegment(strings.TrimPrefix(strings.TrimSpace(ext), ".")); ext != "" {
		return ext
	}
	return "bin"
}

// objectPath is the backend-relative key for opts. A missing base name falls
// back to the current time.
func objectPath(opts SaveOptions) string {
	now := time.Now().UTC()
	category := cleanSegment(opts.Category)
	if category == "" {
		category = "misc"
	}
	base := cleanSegment(opts.BaseName)
	if base == "" {
		base = strconv.FormatInt(now.UnixNano(), 10)
	}
	return path.Join(category, now.Format("2006/01/02"), base+"."+normalizeExtension(opts.Extension))
}

func detectContentType(ext string) string {
	if typeName := mime.TypeByExtension("." + normalizeExtension(ext)); typeName != "" {
		return typeName
	}
	return "application/octet-stream"
}

func joinPrefix(prefix, key string) string {
	key = strings.TrimLeft(key, "/")
	if prefix = trimPrefix(prefix); prefix != "" {
		return path.Join(prefix, key)
	}
	return key
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// ExtensionFromContentType maps an image MIME type to a file extension. The
// second result is false for anything that is not a supported image type.
func ExtensionFromContentType(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(contentType))
	if err != nil {
		return "", false
	}
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg":
		return "jpg", true
	case "image/png":
		return "png", true
	case "image/webp":
		return "webp", true
	case "image/gif":
		return "gif", true
	default:
		return "", false
	}
}
