package output

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// ApplyListOptions applies --limit/--sort-by/--desc to list output.
// Non-list data passes through unchanged; the input is never mutated.
func ApplyListOptions(ctx context.Context, data interface{}) interface{} {
	if data == nil {
		return data
	}

	limit := LimitFromContext(ctx)
	sortBy, desc := SortFromContext(ctx)
	if limit == 0 && sortBy == "" {
		return data
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return data
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return data
	}
	if v.Len() == 0 {
		return data
	}

	// Copy to avoid mutating the caller's slice.
	sliceType := v.Type()
	if v.Kind() == reflect.Array {
		sliceType = reflect.SliceOf(v.Type().Elem())
	}
	out := reflect.MakeSlice(sliceType, v.Len(), v.Len())
	reflect.Copy(out, v)

	if sortBy != "" {
		sortSlice(out, sortBy, desc)
	}
	if limit > 0 && limit < out.Len() {
		out = out.Slice(0, limit)
	}
	return out.Interface()
}

// sortSlice orders a slice by the named field. The field is matched
// against struct fields (json tag or Go name) and string map keys,
// ignoring case, dashes and underscores.
func sortSlice(v reflect.Value, sortBy string, desc bool) {
	sort.SliceStable(v.Interface(), func(i, j int) bool {
		av, aok := fieldValue(v.Index(i), sortBy)
		bv, bok := fieldValue(v.Index(j), sortBy)
		if !aok {
			return false
		}
		if !bok {
			return true
		}
		cmp := compareValues(av, bv)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func fieldValue(v reflect.Value, name string) (interface{}, bool) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	norm := normalizeName(name)
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		for _, key := range v.MapKeys() {
			if normalizeName(key.String()) == norm {
				return v.MapIndex(key).Interface(), true
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if normalizeName(jsonFieldName(f.Name, f.Tag.Get("json"))) == norm {
				return v.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "_", ""), "-", ""))
}

func compareValues(a, b interface{}) int {
	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb)
		}
	case float64:
		if vb, ok := b.(float64); ok {
			switch {
			case va < vb:
				return -1
			case va > vb:
				return 1
			}
			return 0
		}
	case int:
		if vb, ok := b.(int); ok {
			switch {
			case va < vb:
				return -1
			case va > vb:
				return 1
			}
			return 0
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			switch {
			case va.Before(vb):
				return -1
			case va.After(vb):
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
