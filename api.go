package chainz

// Name is a type alias for wrapper, stage, and chain names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    FetchUserName  Name = "fetch-user"
//	    FormatUserName Name = "format-user"
//	    AuditUserName  Name = "audit-user"
//	)
//
//	fetch := chainz.NewProducer(FetchUserName, fetchFunc)
//	format := chainz.NewTransformer(FormatUserName, formatFunc)
//
// Names appear in Error.Path and in chain events, so a failure always
// identifies the exact stage that raised it.
type Name = string

// joinNames derives the name of a composed wrapper from its two
// constituents. The failing constituent's own name still appears in
// Error.Path; the joined form only serves debugging output.
func joinNames(a, b Name) Name {
	return a + "." + b
}
