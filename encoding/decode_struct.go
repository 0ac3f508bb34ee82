package encoding

import (
	"reflect"
	"unsafe"
)

func decodeStruct(typ reflect.Type) (handler, structSize) {
	if !needCustom(typ) {
		totalSize := int(typ.Size())
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Read(unsafe.Slice((*byte)(ptr), totalSize))
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
		unmarshal, fieldSize := decodeFieldAlign(field.Type, size.Size())
		size = size.Add(fieldSize)
		maxSize = max(maxSize, int(field.Type.Align()))
		fields = append(fields, &structData{unmarshal, int(field.Offset)})
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

func decodeFieldAlign(typ reflect.Type, offset int) (handler, structSize) {
	unmarshal, size := decode(typ)
	addr := align(offset, int(typ.Align()))
	if addr == offset {
		return unmarshal, size
	}
	pad := addr - offset
	return func(stream Stream, ptr unsafe.Pointer) error {
		err := stream.Skip(pad)
		if err != nil {
			return err
		}
		return unmarshal(stream, ptr)
	}, append(structSize{pad}, size...)
}
