package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

const classMagic = 0xCAFEBABE

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Access flags.
const (
	accPublic       = 0x0001
	accPrivate      = 0x0002
	accProtected    = 0x0004
	accStatic       = 0x0008
	accFinal        = 0x0010
	accSuper        = 0x0020 // class
	accSynchronized = 0x0020 // method
	accVolatile     = 0x0040 // field
	accBridge       = 0x0040 // method
	accTransient    = 0x0080 // field
	accNative       = 0x0100
	accInterface    = 0x0200
	accAbstract     = 0x0400
	accSynthetic    = 0x1000
	accAnnotation   = 0x2000
	accEnum         = 0x4000
	accModule       = 0x8000
)

// classFile is the structural part of a parsed class file.
type classFile struct {
	access     uint16
	name       string
	superName  string
	interfaces []string
	fields     []member
	methods    []member
}

// member is a field or method.
type member struct {
	access     uint16
	name       string
	descriptor string
}

// cpEntry is one constant pool slot. Only the fields needed to resolve
// class and member names are kept.
type cpEntry struct {
	tag   byte
	utf8  string
	index uint16
}

// reader is a bounds-checked big-endian cursor.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: class file truncated at offset %d", domain.ErrCorruptInput, r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u1() byte {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u2() uint16 {
	if b := r.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u4() uint32 {
	if b := r.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

// parseClass decodes the header, constant pool, fields and methods.
// Attributes are skipped.
func parseClass(data []byte) (*classFile, error) {
	r := &reader{data: data}
	if r.u4() != classMagic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, fmt.Errorf("%w: bad class file magic", domain.ErrCorruptInput)
	}
	r.u2() // minor version
	r.u2() // major version

	pool, err := parsePool(r)
	if err != nil {
		return nil, err
	}

	cf := &classFile{access: r.u2()}
	if cf.name, err = className(pool, r.u2()); err != nil {
		return nil, err
	}
	if idx := r.u2(); idx != 0 {
		if cf.superName, err = className(pool, idx); err != nil {
			return nil, err
		}
	}
	for n := int(r.u2()); n > 0 && r.err == nil; n-- {
		iface, err := className(pool, r.u2())
		if err != nil {
			return nil, err
		}
		cf.interfaces = append(cf.interfaces, iface)
	}
	if cf.fields, err = parseMembers(r, pool); err != nil {
		return nil, err
	}
	if cf.methods, err = parseMembers(r, pool); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return cf, nil
}

func parsePool(r *reader) ([]cpEntry, error) {
	count := int(r.u2())
	pool := make([]cpEntry, count)
	for i := 1; i < count && r.err == nil; i++ {
		tag := r.u1()
		pool[i].tag = tag
		switch tag {
		case tagUtf8:
			pool[i].utf8 = decodeModifiedUTF8(r.take(int(r.u2())))
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			pool[i].index = r.u2()
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.take(4)
		case tagLong, tagDouble:
			r.take(8)
			i++ // eight-byte constants take two slots
		case tagMethodHandle:
			r.take(3)
		default:
			if r.err == nil {
				return nil, fmt.Errorf("%w: unknown constant pool tag %d", domain.ErrCorruptInput, tag)
			}
		}
	}
	return pool, r.err
}

func parseMembers(r *reader, pool []cpEntry) ([]member, error) {
	n := int(r.u2())
	members := make([]member, 0, min(n, 1024))
	for ; n > 0 && r.err == nil; n-- {
		m := member{access: r.u2()}
		var err error
		if m.name, err = utf8At(pool, r.u2()); err != nil {
			return nil, err
		}
		if m.descriptor, err = utf8At(pool, r.u2()); err != nil {
			return nil, err
		}
		for attrs := int(r.u2()); attrs > 0 && r.err == nil; attrs-- {
			r.u2() // attribute name
			r.take(int(r.u4()))
		}
		members = append(members, m)
	}
	return members, r.err
}

func utf8At(pool []cpEntry, idx uint16) (string, error) {
	if int(idx) >= len(pool) || idx == 0 || pool[idx].tag != tagUtf8 {
		return "", fmt.Errorf("%w: constant pool index %d is not a string", domain.ErrCorruptInput, idx)
	}
	return pool[idx].utf8, nil
}

func className(pool []cpEntry, idx uint16) (string, error) {
	if int(idx) >= len(pool) || idx == 0 || pool[idx].tag != tagClass {
		return "", fmt.Errorf("%w: constant pool index %d is not a class", domain.ErrCorruptInput, idx)
	}
	return utf8At(pool, pool[idx].index)
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8, which encodes NUL
// as two bytes. Surrogate halves decode to utf8.RuneError.
func decodeModifiedUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			sb.WriteByte(c)
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			sb.WriteRune(rune(c&0x1F)<<6 | rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			sb.WriteRune(rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F))
			i += 3
		default:
			sb.WriteRune(utf8.RuneError)
			i++
		}
	}
	return sb.String()
}
