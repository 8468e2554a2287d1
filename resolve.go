package fstruct

import "fmt"

type resolver struct {
	reg      *Registry
	maxDepth int
	visiting map[string]bool
}

// resolve appends d's fields to out starting at byte offset base. Nested
// structures are expanded in place with their field name as a path prefix,
// and the cursor moves by the nested descriptor's declared size.
//
// Every array is checked against the bytes still uncovered before the cursor
// advances, so cursor-base never exceeds d.size and never overflows.
func (rs *resolver) resolve(d *Descriptor, prefix string, base, depth int, out []FieldEntry) ([]FieldEntry, error) {
	if depth > rs.maxDepth {
		return nil, &SchemaError{
			Type:   d.typeName,
			Pos:    -1,
			Detail: fmt.Sprintf("nested deeper than %d levels", rs.maxDepth),
			Err:    ErrMalformedSchema,
		}
	}
	decls, err := ParseSchema(d.Schema())
	if err != nil {
		if se, ok := err.(*SchemaError); ok {
			se.Type = d.typeName
		}
		return nil, err
	}

	rs.visiting[d.typeName] = true
	defer delete(rs.visiting, d.typeName)

	seen := make(map[string]bool, len(decls))
	cursor := base
	sizeMismatch := func() error {
		return &SchemaError{
			Type:   d.typeName,
			Pos:    -1,
			Detail: fmt.Sprintf("fields cover %d bytes, declared size is %d", cursor-base, d.size),
			Err:    ErrSizeMismatch,
		}
	}
	if d.size < 0 {
		return nil, sizeMismatch()
	}
	for _, decl := range decls {
		path := prefix + decl.Name
		fail := func(sentinel error, detail string) error {
			return &SchemaError{Type: d.typeName, Field: path, Pos: decl.Pos, Detail: detail, Err: sentinel}
		}
		overflow := func(elem int) error {
			return fail(ErrSizeMismatch, fmt.Sprintf("%d elements of %d bytes exceed the %d bytes left of %d",
				decl.Count, elem, d.size-(cursor-base), d.size))
		}
		if seen[decl.Name] {
			return nil, fail(ErrMalformedSchema, "duplicate field name")
		}
		seen[decl.Name] = true
		left := d.size - (cursor - base)

		if k, ok := KindOf(decl.Type); ok {
			if decl.Enum != nil && !k.IsInteger() {
				return nil, fail(ErrMalformedSchema, fmt.Sprintf("enum spec on non-integer type %s", decl.Type))
			}
			if decl.Count > left/k.Size() {
				return nil, overflow(k.Size())
			}
			ft := FieldType{Kind: k, Count: decl.Count, Enum: decl.Enum}
			out = append(out, FieldEntry{Path: path, Offset: cursor, Type: ft})
			cursor += ft.Size()
			continue
		}

		if decl.Enum != nil {
			return nil, fail(ErrMalformedSchema, fmt.Sprintf("enum spec on structure type %s", decl.Type))
		}
		sub, ok := rs.reg.Lookup(decl.Type)
		if !ok {
			return nil, fail(ErrUnresolvedStruct, fmt.Sprintf("type %q is not registered", decl.Type))
		}
		if rs.visiting[sub.typeName] {
			return nil, fail(ErrMalformedSchema, fmt.Sprintf("type %q contains itself", sub.typeName))
		}
		switch {
		case sub.size <= 0 && decl.Count > 1:
			return nil, fail(ErrMalformedSchema, fmt.Sprintf("array of zero-size structure %s", sub.typeName))
		case sub.size > 0 && decl.Count > left/sub.size:
			return nil, overflow(sub.size)
		}
		for i := 0; i < decl.Count; i++ {
			p := path
			if decl.Count > 1 {
				p = fmt.Sprintf("%s[%d]", path, i)
			}
			if out, err = rs.resolve(sub, p+".", cursor, depth+1, out); err != nil {
				return nil, err
			}
			cursor += sub.size
		}
	}

	if cursor-base != d.size {
		return nil, sizeMismatch()
	}
	return out, nil
}
