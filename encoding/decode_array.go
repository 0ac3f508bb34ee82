package encoding

import (
	"reflect"
	"unsafe"
)

func decodeArray(typ reflect.Type) (handler, structSize) {
	count := typ.Len()
	elemType := typ.Elem()
	if !checkCustom(elemType) {
		totalSize := int(typ.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Read(unsafe.Slice((*byte)(ptr), totalSize))
			return err
		}, structSize{totalSize}
	}
	unmarshal, elemSize := decode(elemType)
	size := make(structSize, 0, count*len(elemSize))
	for i := 0; i < count; i++ {
		size = size.Add(elemSize)
	}
	stride := elemType.Size()
	return func(stream Stream, ptr unsafe.Pointer) error {
		for i := 0; i < count; i++ {
			err := unmarshal(stream, ptr)
			if err != nil {
				return err
			}
			ptr = unsafe.Add(ptr, stride)
		}
		return nil
	}, size
}

func decodeSlice(typ reflect.Type) (handler, structSize) {
	elemType := typ.Elem()
	if !checkCustom(elemType) {
		elemSize := int(elemType.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			slice := (*sliceData)(ptr)
			if slice.Len == 0 {
				return nil
			}
			_, err := stream.Read(unsafe.Slice((*byte)(slice.Data), elemSize*slice.Len))
			return err
		}, nil
	}
	unmarshal, _ := decode(elemType)
	stride := elemType.Size()
	return func(stream Stream, ptr unsafe.Pointer) error {
		slice := (*sliceData)(ptr)
		ptr = slice.Data
		for i := 0; i < slice.Len; i++ {
			err := unmarshal(stream, ptr)
			if err != nil {
				return err
			}
			ptr = unsafe.Add(ptr, stride)
		}
		return nil
	}, nil
}
