package internal

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// entry keeps the original spelling of a key alongside its value so that
// errors and map keys can report what the caller actually wrote.
type entry struct {
	key   string
	value string
}

// Bind populates target from the snapshot according to the binding.
// target must be a non-nil pointer to struct. The snapshot is read-only.
func Bind(snapshot map[string]string, target any, b Binding) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a non-nil pointer to struct")
	}

	bd := &binder{
		idx:      buildIndex(snapshot),
		policy:   b,
		consumed: make(map[string]bool),
	}

	root := FoldKey(b.Prefix)
	if err := bd.bindStruct(v.Elem(), root); err != nil {
		return err
	}

	if !b.IgnoreUnknownFields {
		return bd.checkUnknown(root)
	}
	return nil
}

// buildIndex folds every snapshot key to its canonical form. When two
// spellings fold to the same key, the lexicographically last original wins,
// keeping results independent of map iteration order.
func buildIndex(snapshot map[string]string) map[string]entry {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	idx := make(map[string]entry, len(keys))
	for _, k := range keys {
		idx[FoldKey(k)] = entry{key: k, value: snapshot[k]}
	}
	return idx
}

// binder carries the folded key index and the set of keys consumed so far
// through the recursive walk of the target struct.
type binder struct {
	idx      map[string]entry
	policy   Binding
	consumed map[string]bool
}

func (bd *binder) bindStruct(sv reflect.Value, path string) error {
	st := sv.Type()

	for i := 0; i < sv.NumField(); i++ {
		field := sv.Field(i)
		ft := st.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}

		tag := ft.Tag.Get("config")
		if tag == "-" {
			continue
		}

		// Anonymous embedded structs flatten into the parent path.
		if ft.Anonymous && field.Kind() == reflect.Struct && tag == "" {
			if err := bd.bindStruct(field, path); err != nil {
				return err
			}
			continue
		}

		seg := tag
		if seg == "" {
			seg = ft.Name
		}

		if err := bd.bindField(field, ft, JoinPath(path, FoldName(seg))); err != nil {
			return err
		}
	}

	return nil
}

func (bd *binder) bindField(field reflect.Value, ft reflect.StructField, path string) error {
	switch {
	case field.Kind() == reflect.Struct:
		return bd.bindStruct(field, path)
	case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.Struct:
		// Allocate only when configuration exists below this path.
		if !bd.hasUnder(path) {
			return nil
		}
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return bd.bindStruct(field.Elem(), path)
	case field.Kind() == reflect.Map:
		return bd.bindMap(field, ft, path)
	case field.Kind() == reflect.Slice:
		return bd.bindSlice(field, ft, path)
	default:
		return bd.bindScalar(field, ft, path)
	}
}

func (bd *binder) bindScalar(field reflect.Value, ft reflect.StructField, path string) error {
	def := ft.Tag.Get("default")

	e, ok := bd.idx[path]
	if !ok {
		if def != "" {
			if err := setScalar(field, def); err != nil {
				return fmt.Errorf("invalid default %q for field %s: %w", def, ft.Name, err)
			}
		}
		return nil
	}
	bd.consumed[path] = true

	if err := setScalar(field, e.value); err != nil {
		if bd.policy.IgnoreInvalidFields {
			if def != "" {
				_ = setScalar(field, def)
			}
			return nil
		}
		return &InvalidFieldError{
			Field: ft.Name,
			Key:   e.key,
			Value: e.value,
			Type:  field.Type().String(),
			Err:   err,
		}
	}
	return nil
}

// bindSlice binds a comma-separated scalar value to a slice field.
func (bd *binder) bindSlice(field reflect.Value, ft reflect.StructField, path string) error {
	raw := ""
	key := path

	if e, ok := bd.idx[path]; ok {
		bd.consumed[path] = true
		raw = e.value
		key = e.key
	} else if def := ft.Tag.Get("default"); def != "" {
		raw = def
	} else {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := reflect.MakeSlice(field.Type(), 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := setScalar(elem, p); err != nil {
			if bd.policy.IgnoreInvalidFields {
				return nil
			}
			return &InvalidFieldError{
				Field: ft.Name,
				Key:   key,
				Value: p,
				Type:  field.Type().Elem().String(),
				Err:   err,
			}
		}
		out = reflect.Append(out, elem)
	}

	field.Set(out)
	return nil
}

// bindMap binds every key one or more levels below the field's path into a
// string-keyed map. Map keys keep their original spelling.
func (bd *binder) bindMap(field reflect.Value, ft reflect.StructField, path string) error {
	mt := field.Type()
	if mt.Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type %s for field %s", mt.Key(), ft.Name)
	}

	prefix := path + "."
	var folded []string
	for fk := range bd.idx {
		if strings.HasPrefix(fk, prefix) {
			folded = append(folded, fk)
		}
	}
	if len(folded) == 0 {
		return nil
	}
	sort.Strings(folded)

	depth := len(strings.Split(path, "."))
	out := reflect.MakeMapWithSize(mt, len(folded))

	for _, fk := range folded {
		e := bd.idx[fk]
		bd.consumed[fk] = true

		mapKey := strings.Join(strings.Split(e.key, ".")[depth:], ".")
		elem := reflect.New(mt.Elem()).Elem()
		if err := setScalar(elem, e.value); err != nil {
			if bd.policy.IgnoreInvalidFields {
				continue
			}
			return &InvalidFieldError{
				Field: ft.Name,
				Key:   e.key,
				Value: e.value,
				Type:  mt.Elem().String(),
				Err:   err,
			}
		}
		out.SetMapIndex(reflect.ValueOf(mapKey).Convert(mt.Key()), elem)
	}

	field.Set(out)
	return nil
}

// hasUnder reports whether any key exists strictly below the given path.
func (bd *binder) hasUnder(path string) bool {
	prefix := path + "."
	for fk := range bd.idx {
		if strings.HasPrefix(fk, prefix) {
			return true
		}
	}
	return false
}

// checkUnknown reports the first unconsumed key in scope, in sorted order
// so the error is deterministic.
func (bd *binder) checkUnknown(root string) error {
	scope := ""
	if root != "" {
		scope = root + "."
	}

	var leftover []string
	for fk := range bd.idx {
		inScope := root == "" || fk == root || strings.HasPrefix(fk, scope)
		if inScope && !bd.consumed[fk] {
			leftover = append(leftover, fk)
		}
	}
	if len(leftover) == 0 {
		return nil
	}
	sort.Strings(leftover)

	return &UnknownFieldError{
		Key:    bd.idx[leftover[0]].key,
		Prefix: bd.policy.Prefix,
	}
}

// setScalar converts a string value and assigns it to a field.
// Empty values leave the field untouched.
func setScalar(field reflect.Value, value string) error {
	if value == "" {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
			return nil
		}
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(uintValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
