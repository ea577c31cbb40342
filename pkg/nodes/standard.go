package nodes

// Standard returns a catalog holding every built-in node type.
func Standard() *Catalog {
	c := NewCatalog()
	c.MustRegister(valueDefinitions()...)
	c.MustRegister(stateDefinitions()...)
	c.MustRegister(inventoryDefinitions()...)
	c.MustRegister(resourceDefinitions()...)
	c.MustRegister(clockDefinitions()...)
	c.MustRegister(errandDefinitions()...)
	c.MustRegister(eventDefinitions()...)
	return c
}
