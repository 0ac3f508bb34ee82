package encoding

import (
	"iter"
	"reflect"
	"unsafe"
)

type structData struct {
	handler handler
	offset  int
}

// encodeStruct lays fields out with natural alignment, which matches the
// MIPS C layout of the emulated program. Fields tagged `encoding:"ignore"`
// occupy no space.
func encodeStruct(typ reflect.Type) (handler, structSize) {
	if !needCustom(typ) {
		totalSize := int(typ.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Write(unsafe.Slice((*byte)(ptr), totalSize))
			return err
		}, structSize{totalSize}
	}
	var size structSize
	var fields []*structData
	maxSize := 1
	for field := range rangeField(typ) {
		if ignored(field) {
			continue
		}
		marshal, fieldSize := encodeFieldAlign(field.Type, size.Size())
		size = size.Add(fieldSize)
		maxSize = max(maxSize, int(field.Type.Align()))
		fields = append(fields, &structData{marshal, int(field.Offset)})
	}
	totalSize := size.Size()
	pad := align(totalSize, maxSize) - totalSize
	if pad > 0 {
		size = append(size, pad)
	}
	return func(stream Stream, ptr unsafe.Pointer) error {
		for _, data := range fields {
			err := data.handler(stream, unsafe.Add(ptr, data.offset))
			if err != nil {
				return err
			}
		}
		if pad > 0 {
			return stream.Skip(pad)
		}
		return nil
	}, size
}

func encodeFieldAlign(typ reflect.Type, offset int) (handler, structSize) {
	marshal, size := encode(typ)
	addr := align(offset, int(typ.Align()))
	if addr == offset {
		return marshal, size
	}
	pad := addr - offset
	return func(stream Stream, ptr unsafe.Pointer) error {
		err := stream.Skip(pad)
		if err != nil {
			return err
		}
		return marshal(stream, ptr)
	}, append(structSize{pad}, size...)
}

func needCustom(typ reflect.Type) bool {
	for field := range rangeField(typ) {
		if ignored(field) || checkCustom(field.Type) {
			return true
		}
	}
	return false
}

func ignored(field reflect.StructField) bool {
	return field.Tag.Get("encoding") == "ignore" || field.Name == "_"
}

func rangeField(typ reflect.Type) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		count := typ.NumField()
		for i := 0; i < count; i++ {
			if !yield(typ.Field(i)) {
				break
			}
		}
	}
}

func align(a, b int) int {
	return (a + b - 1) &^ (b - 1)
}
