package encoding

import (
	"reflect"
	"unsafe"
)

type sliceData struct {
	Data unsafe.Pointer
	Len  int
}

func encodeArray(typ reflect.Type) (handler, structSize) {
	count := typ.Len()
	elemType := typ.Elem()
	if !checkCustom(elemType) {
		totalSize := int(typ.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Write(unsafe.Slice((*byte)(ptr), totalSize))
			return err
		}, structSize{totalSize}
	}
	marshal, elemSize := encode(elemType)
	size := make(structSize, 0, count*len(elemSize))
	for i := 0; i < count; i++ {
		size = size.Add(elemSize)
	}
	stride := elemType.Size()
	return func(stream Stream, ptr unsafe.Pointer) error {
		for i := 0; i < count; i++ {
			err := marshal(stream, ptr)
			if err != nil {
				return err
			}
			ptr = unsafe.Add(ptr, stride)
		}
		return nil
	}, size
}

func encodeSlice(typ reflect.Type) (handler, structSize) {
	elemType := typ.Elem()
	if !checkCustom(elemType) {
		elemSize := int(elemType.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			slice := (*sliceData)(ptr)
			if slice.Len == 0 {
				return nil
			}
			_, err := stream.Write(unsafe.Slice((*byte)(slice.Data), elemSize*slice.Len))
			return err
		}, nil
	}
	marshal, _ := encode(elemType)
	stride := elemType.Size()
	return func(stream Stream, ptr unsafe.Pointer) error {
		slice := (*sliceData)(ptr)
		ptr = slice.Data
		for i := 0; i < slice.Len; i++ {
			err := marshal(stream, ptr)
			if err != nil {
				return err
			}
			ptr = unsafe.Add(ptr, stride)
		}
		return nil
	}, nil
}
