package encoding

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/modern-go/reflect2"
)

type handler = func(Stream, unsafe.Pointer) error

type handlerData struct {
	handler handler
	size    int
}

var encodeProcess sync.Map

// Size returns the number of bytes val occupies in emulated memory. Pointers
// report the size of their element.
func Size(val any) int {
	typ := reflect2.TypeOf(val)
	if typ == nil {
		return 0
	}
	t := typ.Type1()
	switch t.Kind() {
	case reflect.Pointer:
		t = t.Elem()
	case reflect.Slice:
		data := getMarshalData(reflect2.Type2(t.Elem()))
		return data.size * (*sliceData)(reflect2.PtrOf(val)).Len
	}
	return getMarshalData(reflect2.Type2(t)).size
}

func Encode(stream Stream, val any) error {
	typ := reflect2.TypeOf(val)
	if typ == nil {
		return ErrNotPointer
	}
	ptr := reflect2.PtrOf(val)
	if ptr == nil {
		return ErrNotPointer
	}
	t := typ.Type1()
	if t.Kind() == reflect.Pointer {
		return getMarshalData(reflect2.Type2(t.Elem())).handler(stream, ptr)
	}
	return getMarshalData(typ).handler(stream, ptr)
}

func getMarshalData(typ reflect2.Type) *handlerData {
	key := typ.RType()
	if v, ok := encodeProcess.Load(key); ok {
		return v.(*handlerData)
	}
	marshal, size := encode(typ.Type1())
	data := &handlerData{marshal, size.Size()}
	encodeProcess.Store(key, data)
	return data
}

func encode(typ reflect.Type) (handler, structSize) {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Float32, reflect.Float64:
		size := int(typ.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Write(unsafe.Slice((*byte)(ptr), size))
			return err
		}, structSize{size}
	case reflect.Array:
		return encodeArray(typ)
	case reflect.Slice:
		return encodeSlice(typ)
	case reflect.Struct:
		return encodeStruct(typ)
	}
	return unsupported(typ)
}

func unsupported(typ reflect.Type) (handler, structSize) {
	err := fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	return func(Stream, unsafe.Pointer) error {
		return err
	}, nil
}

func checkCustom(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Float32, reflect.Float64:
		return false
	case reflect.Array:
		return checkCustom(typ.Elem())
	}
	return true
}
