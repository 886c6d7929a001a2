package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/v-danh/typelattice/internal/types"
)

// typeParser reads the textual type expressions accepted on the command
// line: builtin class names, Union[...], Optional[...], Tuple[...],
// List[...], Set[...], Dict[K, V], Type[...], Literal[...] and
// Callable[[P1, ...], R].
type typeParser struct {
	input    string
	pos      int
	builtins *types.Builtins
}

func newTypeParser(input string, builtins *types.Builtins) *typeParser {
	return &typeParser{input: input, builtins: builtins}
}

// ParseType parses a single type expression.
func ParseType(input string, builtins *types.Builtins) (types.Type, error) {
	p := newTypeParser(input, builtins)
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.rest(), p.pos)
	}
	return t, nil
}

func (p *typeParser) parseType() (types.Type, error) {
	p.skipSpace()
	if strings.HasPrefix(p.rest(), "[") {
		return nil, fmt.Errorf("expected a type name at offset %d", p.pos)
	}
	name := p.readName()
	if name == "" {
		return nil, fmt.Errorf("expected a type name at offset %d", p.pos)
	}

	switch name {
	case "None":
		return types.NoneType{}, nil
	case "Any":
		return types.AnyType{Source: types.AnyExplicit}, nil
	case "Never", "NoReturn":
		return types.UninhabitedType{}, nil
	case "Union":
		items, err := p.parseBracketedList()
		if err != nil {
			return nil, err
		}
		if err := rejectEllipsis(items); err != nil {
			return nil, err
		}
		return types.MakeUnion(items), nil
	case "Optional":
		items, err := p.parseBracketedList()
		if err != nil {
			return nil, err
		}
		if err := rejectEllipsis(items); err != nil {
			return nil, err
		}
		if len(items) != 1 {
			return nil, fmt.Errorf("Optional takes exactly one argument")
		}
		return types.MakeUnion([]types.Type{items[0], types.NoneType{}}), nil
	case "Tuple", "tuple":
		items, err := p.parseBracketedList()
		if err != nil {
			return nil, err
		}
		// Tuple[T, ...] is the variable-arity form.
		if len(items) == 2 {
			_, varArity := items[1].(ellipsisMarker)
			_, badElem := items[0].(ellipsisMarker)
			if varArity && !badElem {
				return p.builtins.VarTuple(items[0]), nil
			}
		}
		for _, it := range items {
			if _, ok := it.(ellipsisMarker); ok {
				return nil, fmt.Errorf("misplaced ... in Tuple")
			}
		}
		return p.builtins.Tuple(items...), nil
	case "Type", "type":
		if !p.peekBracket() {
			return p.builtins.Instance(p.builtins.Type), nil
		}
		items, err := p.parseBracketedList()
		if err != nil {
			return nil, err
		}
		if err := rejectEllipsis(items); err != nil {
			return nil, err
		}
		if len(items) != 1 {
			return nil, fmt.Errorf("Type takes exactly one argument")
		}
		return types.MakeTypeType(items[0]), nil
	case "Literal":
		return p.parseLiteral()
	case "Callable":
		return p.parseCallable()
	}

	cls, err := p.lookupClass(name)
	if err != nil {
		return nil, err
	}
	if !p.peekBracket() {
		return p.builtins.Instance(cls), nil
	}
	args, err := p.parseBracketedList()
	if err != nil {
		return nil, err
	}
	if err := rejectEllipsis(args); err != nil {
		return nil, err
	}
	return p.builtins.Instance(cls, args...), nil
}

func rejectEllipsis(items []types.Type) error {
	for _, it := range items {
		if _, ok := it.(ellipsisMarker); ok {
			return fmt.Errorf("... is only valid in Tuple[T, ...]")
		}
	}
	return nil
}

func (p *typeParser) lookupClass(name string) (*types.ClassInfo, error) {
	b := p.builtins
	switch name {
	case "object":
		return b.Object, nil
	case "int":
		return b.Int, nil
	case "float":
		return b.Float, nil
	case "complex":
		return b.Complex, nil
	case "bool":
		return b.Bool, nil
	case "str":
		return b.Str, nil
	case "bytes":
		return b.Bytes, nil
	case "list", "List":
		return b.List, nil
	case "set", "Set":
		return b.Set, nil
	case "dict", "Dict":
		return b.Dict, nil
	case "Mapping":
		return b.Mapping, nil
	}
	return nil, fmt.Errorf("unknown type name %q", name)
}

// parseCallable reads Callable[[P1, ...], R].
func (p *typeParser) parseCallable() (types.Type, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	if err := p.expect('['); err != nil {
		return nil, fmt.Errorf("Callable parameters must be a bracketed list: %w", err)
	}
	var params []types.Type
	p.skipSpace()
	if !p.consume(']') {
		for {
			param, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			p.skipSpace()
			if p.consume(']') {
				break
			}
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return p.builtins.Callable(params, ret), nil
}

// parseLiteral reads Literal[value, ...] and unions multiple values.
func (p *typeParser) parseLiteral() (types.Type, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var items []types.Type
	for {
		value, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		items = append(items, p.builtins.Literal(value))
		p.skipSpace()
		if p.consume(']') {
			break
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
	return types.MakeUnion(items), nil
}

func (p *typeParser) parseLiteralValue() (any, error) {
	p.skipSpace()
	rest := p.rest()
	switch {
	case strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, "'"):
		quote := rest[0]
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return nil, fmt.Errorf("unterminated string at offset %d", p.pos)
		}
		p.pos += end + 2
		return rest[1 : end+1], nil
	case strings.HasPrefix(rest, "True"):
		p.pos += len("True")
		return true, nil
	case strings.HasPrefix(rest, "False"):
		p.pos += len("False")
		return false, nil
	default:
		end := 0
		for end < len(rest) && (rest[end] == '-' || unicode.IsDigit(rune(rest[end]))) {
			end++
		}
		if end == 0 {
			return nil, fmt.Errorf("expected a literal value at offset %d", p.pos)
		}
		n, err := strconv.Atoi(rest[:end])
		if err != nil {
			return nil, fmt.Errorf("bad literal value %q", rest[:end])
		}
		p.pos += end
		return n, nil
	}
}

// ellipsisMarker is a placeholder produced for "..." inside brackets; it is
// only valid as the second element of Tuple[T, ...].
type ellipsisMarker struct{}

func (ellipsisMarker) String() string { return "..." }

func (p *typeParser) parseBracketedList() ([]types.Type, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var items []types.Type
	for {
		p.skipSpace()
		if strings.HasPrefix(p.rest(), "...") {
			// Validity is checked by the caller; only Tuple accepts it.
			p.pos += 3
			items = append(items, ellipsisMarker{})
		} else {
			item, err := p.parseType()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		p.skipSpace()
		if p.consume(']') {
			return items, nil
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
}

func (p *typeParser) readName() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peekBracket() bool {
	p.skipSpace()
	return p.pos < len(p.input) && p.input[p.pos] == '['
}

func (p *typeParser) consume(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) expect(c byte) error {
	if !p.consume(c) {
		return fmt.Errorf("expected %q at offset %d", string(c), p.pos)
	}
	return nil
}

func (p *typeParser) rest() string {
	return p.input[p.pos:]
}
