package spec

// DocumentFragment is https://dom.spec.whatwg.org/#documentfragment
type DocumentFragment struct {
	// Host is set for template content fragments.
	Host *Node
}
