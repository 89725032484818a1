package slave

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/dermesser/slaverpc/log"
)

// Methods and fields carrying this prefix are remotely accessible even on
// servers that do not allow public attribute access.
const ExposedPrefix = "Exposed"

/*
A Registry holds the objects a slave server exposes. Clients address objects
by the name they were registered under; which members they may touch is
decided per request from the server's protocol options.

A Registry is safe for concurrent use; the server's workers resolve members
while the embedding program may still register objects.
*/
type Registry struct {
	lock    sync.RWMutex
	objects map[string]interface{}
}

func NewRegistry() *Registry {
	return &Registry{objects: make(map[string]interface{})}
}

/*
Expose obj under name. Register a pointer to a struct if clients are supposed
to write fields or call pointer-receiver methods.

err is not nil if the name is taken or obj is nil.
*/
func (r *Registry) Register(name string, obj interface{}) error {
	if obj == nil {
		return errors.New("Refusing to register nil object")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.objects[name]; ok {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Trying to register existing object:", name)
		return errors.New("Object already registered; not overwritten")
	}

	log.SRPC_log(log.LOGLEVEL_INFO, "Registered object:", name)

	r.objects[name] = obj
	return nil
}

// Remove an object from the registry. Returns an error if it doesn't exist.
func (r *Registry) Unregister(name string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.objects[name]; !ok {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Trying to unregister non-existing object:", name)
		return errors.New("No such object")
	}

	log.SRPC_log(log.LOGLEVEL_INFO, "Unregistered object:", name)

	delete(r.objects, name)
	return nil
}

// The names of all registered objects, sorted.
func (r *Registry) Objects() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	names := make([]string, 0, len(r.objects))
	for name := range r.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (reflect.Value, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	obj, ok := r.objects[name]

	if !ok {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(obj), true
}

// Whether a member of this name may be touched remotely under the given
// attribute policy.
func memberAccessible(name string, allowPublicAttrs bool) bool {
	if !isExported(name) {
		return false
	}
	return allowPublicAttrs || strings.HasPrefix(name, ExposedPrefix)
}

func isExported(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// Resolve a callable method on obj. The error distinguishes "no such member"
// from "member exists but is not accessible".
func (r *Registry) method(objName, member string, allowPublicAttrs bool) (reflect.Value, error) {
	obj, ok := r.lookup(objName)

	if !ok {
		return reflect.Value{}, errors.New("No such object: " + objName)
	}

	m := obj.MethodByName(member)

	if !m.IsValid() {
		return reflect.Value{}, errors.New("No such method: " + objName + "." + member)
	}
	if !memberAccessible(member, allowPublicAttrs) {
		return reflect.Value{}, errors.New("Method not accessible: " + objName + "." + member)
	}
	return m, nil
}

// Resolve a struct field on obj. forWrite additionally demands that the field
// is settable, which requires the object to be registered as a pointer.
func (r *Registry) field(objName, member string, allowPublicAttrs, forWrite bool) (reflect.Value, error) {
	obj, ok := r.lookup(objName)

	if !ok {
		return reflect.Value{}, errors.New("No such object: " + objName)
	}

	for obj.Kind() == reflect.Ptr {
		obj = obj.Elem()
	}
	if obj.Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("Object has no fields: " + objName)
	}

	f := obj.FieldByName(member)

	if !f.IsValid() {
		return reflect.Value{}, errors.New("No such field: " + objName + "." + member)
	}
	if !memberAccessible(member, allowPublicAttrs) {
		return reflect.Value{}, errors.New("Field not accessible: " + objName + "." + member)
	}
	if forWrite && !f.CanSet() {
		return reflect.Value{}, errors.New("Field not settable (register a pointer): " + objName + "." + member)
	}
	return f, nil
}

// All accessible members of an object: methods first, then fields, each
// sorted alphabetically.
func (r *Registry) dir(objName string, allowPublicAttrs bool) ([]string, error) {
	obj, ok := r.lookup(objName)

	if !ok {
		return nil, errors.New("No such object: " + objName)
	}

	var methods, fields []string

	t := obj.Type()
	for i := 0; i < t.NumMethod(); i++ {
		if name := t.Method(i).Name; memberAccessible(name, allowPublicAttrs) {
			methods = append(methods, name)
		}
	}

	elem := obj
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		et := elem.Type()
		for i := 0; i < et.NumField(); i++ {
			if name := et.Field(i).Name; memberAccessible(name, allowPublicAttrs) {
				fields = append(fields, name)
			}
		}
	}

	sort.Strings(methods)
	sort.Strings(fields)
	return append(methods, fields...), nil
}
