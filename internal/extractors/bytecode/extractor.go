// Package bytecode renders the structural signature of a compiled Java
// class: its declaration line followed by one line per field and method.
package bytecode

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Java class files.
type Extractor struct{}

// New creates a new bytecode extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "bytecode"
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.MIMEJavaClass, "application/x-java-class"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 30
}

// Extract renders the class signature.
func (e *Extractor) Extract(_ context.Context, req *driven.ExtractRequest) (res *driven.ExtractResult, err error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: class file: %v", domain.ErrCorruptInput, r)
		}
	}()

	cf, err := parseClass(req.Attachment.Content)
	if err != nil {
		return nil, err
	}
	if cf.access&accModule != 0 {
		return nil, fmt.Errorf("%w: module descriptor", domain.ErrUnsupportedFormat)
	}

	meta := map[string]string{"class": strings.ReplaceAll(cf.name, "/", ".")}
	return &driven.ExtractResult{Text: render(cf), Metadata: meta}, nil
}

// render lays out the class:
//
//	package a.b;
//
//	public synchronized class Name extends Base implements Iface {
//	    private int count;
//	    public void Name();
//	    public static void main(String[]);
//	}
//
// followed by a blank line. The package line is omitted for the default
// package.
func render(cf *classFile) string {
	var sb strings.Builder

	if i := strings.LastIndexByte(cf.name, '/'); i > 0 {
		sb.WriteString("package ")
		sb.WriteString(strings.ReplaceAll(cf.name[:i], "/", "."))
		sb.WriteString(";\n\n")
	}

	simple := simpleName(cf.name)
	sb.WriteString(classModifiers(cf.access))
	sb.WriteString(simple)
	if cf.superName != "" && cf.superName != "java/lang/Object" && cf.access&(accInterface|accEnum) == 0 {
		sb.WriteString(" extends ")
		sb.WriteString(simpleName(cf.superName))
	}
	if len(cf.interfaces) > 0 {
		if cf.access&accInterface != 0 {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		for i, iface := range cf.interfaces {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(simpleName(iface))
		}
	}
	sb.WriteString(" {\n")

	for _, f := range cf.fields {
		if f.access&accSynthetic != 0 {
			continue
		}
		typ, _ := parseFieldType(f.descriptor)
		sb.WriteString("    ")
		sb.WriteString(fieldModifiers(f.access))
		sb.WriteString(typ)
		sb.WriteString(" ")
		sb.WriteString(f.name)
		sb.WriteString(";\n")
	}

	for _, m := range cf.methods {
		if m.access&(accSynthetic|accBridge) != 0 || m.name == "<clinit>" {
			continue
		}
		params, ret := parseMethodDescriptor(m.descriptor)
		name := m.name
		if name == "<init>" {
			name = simple
		}
		sb.WriteString("    ")
		sb.WriteString(methodModifiers(m.access, cf.access&accInterface != 0))
		sb.WriteString(ret)
		sb.WriteString(" ")
		sb.WriteString(name)
		sb.WriteString("(")
		sb.WriteString(strings.Join(params, ", "))
		sb.WriteString(");\n")
	}

	sb.WriteString("}\n\n")
	return sb.String()
}

// classModifiers renders the class access flags and kind keyword.
// ACC_SUPER shares its bit with the method flag ACC_SYNCHRONIZED and is
// rendered as "synchronized".
func classModifiers(access uint16) string {
	var mods []string
	if access&accPublic != 0 {
		mods = append(mods, "public")
	}
	if access&accFinal != 0 && access&accEnum == 0 {
		mods = append(mods, "final")
	}
	if access&accSuper != 0 {
		mods = append(mods, "synchronized")
	}
	switch {
	case access&accAnnotation != 0:
		mods = append(mods, "@interface")
	case access&accInterface != 0:
		mods = append(mods, "interface")
	case access&accEnum != 0:
		mods = append(mods, "enum")
	default:
		if access&accAbstract != 0 {
			mods = append(mods, "abstract")
		}
		mods = append(mods, "class")
	}
	return strings.Join(mods, " ") + " "
}

func fieldModifiers(access uint16) string {
	return modifiers(access, []flagName{
		{accPublic, "public"},
		{accPrivate, "private"},
		{accProtected, "protected"},
		{accStatic, "static"},
		{accFinal, "final"},
		{accVolatile, "volatile"},
		{accTransient, "transient"},
	})
}

func methodModifiers(access uint16, inInterface bool) string {
	if inInterface {
		// Interface methods are implicitly abstract.
		access &^= accAbstract
	}
	return modifiers(access, []flagName{
		{accPublic, "public"},
		{accPrivate, "private"},
		{accProtected, "protected"},
		{accStatic, "static"},
		{accFinal, "final"},
		{accSynchronized, "synchronized"},
		{accNative, "native"},
		{accAbstract, "abstract"},
	})
}

type flagName struct {
	flag uint16
	name string
}

func modifiers(access uint16, names []flagName) string {
	var sb strings.Builder
	for _, n := range names {
		if access&n.flag != 0 {
			sb.WriteString(n.name)
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// simpleName strips the package from an internal class name.
func simpleName(internal string) string {
	if i := strings.LastIndexByte(internal, '/'); i >= 0 {
		return internal[i+1:]
	}
	return internal
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// parseFieldType decodes one type from the start of a descriptor and
// returns its simple name and the rest of the descriptor.
func parseFieldType(desc string) (string, string) {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	desc = desc[dims:]
	if desc == "" {
		return "?", ""
	}

	var typ string
	if desc[0] == 'L' {
		end := strings.IndexByte(desc, ';')
		if end < 0 {
			return "?", ""
		}
		typ = simpleName(desc[1:end])
		desc = desc[end+1:]
	} else {
		t, ok := baseTypes[desc[0]]
		if !ok {
			t = "?"
		}
		typ = t
		desc = desc[1:]
	}
	return typ + strings.Repeat("[]", dims), desc
}

// parseMethodDescriptor decodes "(params)ret" into simple type names.
func parseMethodDescriptor(desc string) ([]string, string) {
	if !strings.HasPrefix(desc, "(") {
		return nil, "?"
	}
	rest := desc[1:]
	var params []string
	for rest != "" && rest[0] != ')' {
		var typ string
		typ, rest = parseFieldType(rest)
		params = append(params, typ)
	}
	if rest == "" {
		return params, "?"
	}
	ret, _ := parseFieldType(rest[1:])
	return params, ret
}
