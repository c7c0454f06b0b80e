package binding

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// normalizeRecord fills a zero ID and CreatedAt and converts every time.Time
// field to UTC so date values round-trip to the same instant regardless of
// the writer's location.
func normalizeRecord(rec any, now time.Time) uuid.UUID {
	v := reflect.ValueOf(rec)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return uuid.Nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return uuid.Nil
	}

	var id uuid.UUID
	if f := v.FieldByName("ID"); f.IsValid() && f.CanSet() && f.Type() == reflect.TypeOf(uuid.UUID{}) {
		if f.Interface().(uuid.UUID) == uuid.Nil {
			f.Set(reflect.ValueOf(uuid.New()))
		}
		id = f.Interface().(uuid.UUID)
	}
	if f := v.FieldByName("CreatedAt"); f.IsValid() && f.CanSet() && f.Type() == reflect.TypeOf(time.Time{}) {
		if f.Interface().(time.Time).IsZero() {
			f.Set(reflect.ValueOf(now))
		}
	}
	normalizeTimes(v)
	return id
}

func normalizeTimes(v reflect.Value) {
	timeType := reflect.TypeOf(time.Time{})
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanSet() {
			continue
		}
		switch {
		case f.Type() == timeType:
			t := f.Interface().(time.Time)
			if !t.IsZero() {
				f.Set(reflect.ValueOf(t.UTC()))
			}
		case f.Kind() == reflect.Ptr && f.Type().Elem() == timeType && !f.IsNil():
			t := f.Elem().Interface().(time.Time).UTC()
			f.Set(reflect.ValueOf(&t))
		}
	}
}

// normalizePatch converts time values inside a partial update to UTC.
func normalizePatch(patch map[string]any) map[string]any {
	for k, val := range patch {
		switch t := val.(type) {
		case time.Time:
			patch[k] = t.UTC()
		case *time.Time:
			if t != nil {
				u := t.UTC()
				patch[k] = &u
			}
		}
	}
	return patch
}
