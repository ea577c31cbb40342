// Package schema provides the small type system used to describe node
// properties and slot values.
//
// Node types publish their editable properties as typed fields; tooling reads
// and writes node configuration through those descriptors instead of
// inspecting structs at runtime.
//
//	fields := []schema.Field{
//	    {Name: "flag", Type: schema.String(), Required: true},
//	    {Name: "at", Type: schema.Clock()},
//	    {Name: "resource", Type: schema.Enum("money", "energy")},
//	}
//
//	if err := schema.Validate(fields, node.Config); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // report each failure
//	    }
//	}
package schema
