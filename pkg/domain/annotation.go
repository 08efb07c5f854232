package domain

// Annotatable stores named annotations attached to metadata elements. The
// zero value is ready to use; lookups against it report no annotation.
type Annotatable struct {
	annotations map[string]any
}

// AddAnnotation attaches a named annotation value. An empty name is a
// programming error and panics.
func (a *Annotatable) AddAnnotation(name string, value any) {
	if name == "" {
		panic("domain: annotation name must not be empty")
	}
	if a.annotations == nil {
		a.annotations = make(map[string]any)
	}
	a.annotations[name] = value
}

// FindAnnotation returns the annotation value for name, or nil when the
// element carries no such annotation. An empty name is a programming error
// and panics.
func (a *Annotatable) FindAnnotation(name string) any {
	if name == "" {
		panic("domain: annotation name must not be empty")
	}
	if a.annotations == nil {
		return nil
	}
	return a.annotations[name]
}

// Annotations returns a copy of all attached annotations.
func (a *Annotatable) Annotations() map[string]any {
	out := make(map[string]any, len(a.annotations))
	for name, value := range a.annotations {
		out[name] = value
	}
	return out
}
