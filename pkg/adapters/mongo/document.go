package mongo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/notekeeper/mongonote/pkg/core"
)

// noteDocument is the stored shape of a note.
// The __v key matches documents written by the ODM that shares this collection.
type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Date      time.Time          `bson:"date"`
	Important bool               `bson:"important"`
	Version   int32              `bson:"__v"`
}

func fromNote(n core.Note) (noteDocument, error) {
	doc := noteDocument{
		Content:   n.Content,
		Date:      n.Date.UTC(),
		Important: n.Important,
	}
	if n.ID != "" {
		oid, err := primitive.ObjectIDFromHex(n.ID)
		if err != nil {
			return noteDocument{}, fmt.Errorf("invalid note id %q: %w", n.ID, err)
		}
		doc.ID = oid
	}
	return doc, nil
}

// decodeNote maps a raw stored document onto a Note.
// Field values are coerced to the declared types; nothing is rejected.
func decodeNote(raw bson.M) core.Note {
	return core.Note{
		ID:        coerceID(raw["_id"]),
		Content:   coerceString(raw["content"]),
		Date:      coerceTime(raw["date"]),
		Important: coerceBool(raw["important"]),
	}
}

func coerceID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprintf("%v", id)
	}
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func coerceTime(v any) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case int64:
		return time.UnixMilli(t).UTC()
	case int32:
		return time.UnixMilli(int64(t)).UTC()
	case float64:
		return time.UnixMilli(int64(t)).UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t)); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int32:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	}
	return false
}
