package spec

import "github.com/pkg/errors"

// DOM exception kinds. Mutation APIs validate before they touch the tree, so a
// returned error means the tree was not modified.
// https://webidl.spec.whatwg.org/#idl-DOMException-error-names
var (
	ErrHierarchyRequest = errors.New("HierarchyRequestError")
	ErrWrongDocument    = errors.New("WrongDocumentError")
	ErrInvalidCharacter = errors.New("InvalidCharacterError")
	ErrNotFound         = errors.New("NotFoundError")
	ErrNotSupported     = errors.New("NotSupportedError")
	ErrInUseAttribute   = errors.New("InUseAttributeError")
	ErrSyntax           = errors.New("SyntaxError")
	ErrInvalidNodeType  = errors.New("InvalidNodeTypeError")
	ErrNamespace        = errors.New("NamespaceError")
	ErrIndexSize        = errors.New("IndexSizeError")
)

func hierarchyRequestError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrHierarchyRequest, format, args...)
}

func notFoundError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

func notSupportedError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotSupported, format, args...)
}

func indexSizeError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIndexSize, format, args...)
}
