package profile

// builtinEntry pairs a canonical Serializable with every spelling
// that should resolve to it. "size_t" and "std::size_t" are both
// accepted, canonicalizing to "std::size_t"; fixed-width integers
// accept both the bare and std::-prefixed spelling, canonicalizing to
// the std:: form.
type builtinEntry struct {
	aliases   []string
	canonical *Serializable
}

// builtinDefs describes the fixed built-in type set every Profile is
// constructed with.
func builtinDefs() []builtinEntry {
	var defs []builtinEntry

	simple := func(names ...string) {
		canonical := names[len(names)-1]
		entry := NewSerializable(canonical, KindBuiltin)
		defs = append(defs, builtinEntry{aliases: names, canonical: entry})
	}

	simple("int")
	simple("float")
	simple("double")
	simple("size_t", "std::size_t")
	simple("std::string")

	// Collection templates: the registry holds the template head;
	// the Type Resolver composes "<arg,...>" onto the resolved head
	// when it encounters template arguments.
	simple("std::deque")
	simple("std::list")
	simple("std::vector")
	simple("std::map")
	simple("std::unordered_map")

	for _, width := range []string{"8", "16", "32", "64"} {
		for _, sign := range []string{"", "u"} {
			bare := sign + "int" + width + "_t"
			qualified := "std::" + bare
			simple(bare, qualified)
		}
	}

	return defs
}

// UnsupportedInts are the platform-dependent integer types rejected
// everywhere a type is resolved: use the fixed-width types instead.
var UnsupportedInts = map[string]bool{
	"char":  true,
	"long":  true,
	"short": true,
}

// UnimplementedCollections are collection templates the Type Resolver
// and Parameter Parser reject explicitly, with a "not currently
// supported" message.
var UnimplementedCollections = map[string]bool{
	"std::array":          true,
	"std::forward_list":   true,
	"std::stack":          true,
	"std::queue":          true,
	"std::priority_queue": true,
	"std::flat_set":       true,
	"std::flat_map":       true,
	"std::flat_multiset":  true,
	"std::flat_multimap":  true,
}
