package encoding

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/modern-go/reflect2"
)

var decodeProcess sync.Map

// Decode fills val, which must be a pointer or a slice, from stream.
func Decode(stream Stream, val any) error {
	typ := reflect2.TypeOf(val)
	if typ == nil {
		return ErrNotPointer
	}
	ptr := reflect2.PtrOf(val)
	if ptr == nil {
		return ErrNotPointer
	}
	t := typ.Type1()
	switch t.Kind() {
	case reflect.Pointer:
		return getUnmarshalData(reflect2.Type2(t.Elem())).handler(stream, ptr)
	case reflect.Slice:
		return getUnmarshalData(typ).handler(stream, ptr)
	}
	return ErrNotPointer
}

func getUnmarshalData(typ reflect2.Type) *handlerData {
	key := typ.RType()
	if v, ok := decodeProcess.Load(key); ok {
		return v.(*handlerData)
	}
	unmarshal, size := decode(typ.Type1())
	data := &handlerData{unmarshal, size.Size()}
	decodeProcess.Store(key, data)
	return data
}

func decode(typ reflect.Type) (handler, structSize) {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Float32, reflect.Float64:
		size := int(typ.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Read(unsafe.Slice((*byte)(ptr), size))
			return err
		}, structSize{size}
	case reflect.Array:
		return decodeArray(typ)
	case reflect.Slice:
		return decodeSlice(typ)
	case reflect.Struct:
		return decodeStruct(typ)
	}
	return unsupported(typ)
}
