package taxonomy

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// NameNotFoundError is returned when a taxon identifier has no scientific
// name in the NameIndex.
func NameNotFoundError(id TaxonID) error {
	msg := "No scientific name for taxon <em>%d</em> in names.dmp"
	vars := []any{int(id)}
	return &gn.Error{
		Code: errcode.NameNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("name not found for taxon %d", id),
	}
}

// UnknownTaxonError is returned when the ancestry provider cannot resolve
// a taxon identifier.
func UnknownTaxonError(id TaxonID, err error) error {
	msg := "Taxon <em>%d</em> is unknown to the taxonomy snapshot"
	vars := []any{int(id)}
	return &gn.Error{
		Code: errcode.UnknownTaxonError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown taxon %d: %w", id, err),
	}
}

// BrokenLineageError is returned when the ancestor chain of a known taxon
// is damaged in the taxonomy snapshot.
func BrokenLineageError(id TaxonID, err error) error {
	msg := "Lineage of taxon <em>%d</em> is broken in the taxonomy snapshot"
	vars := []any{int(id)}
	return &gn.Error{
		Code: errcode.BrokenLineageError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("broken lineage of taxon %d: %w", id, err),
	}
}

// AncestryError is returned when the ancestry provider fails for reasons
// other than a missing taxon.
func AncestryError(id TaxonID, err error) error {
	msg := "Cannot get ancestry of taxon <em>%d</em>"
	vars := []any{int(id)}
	return &gn.Error{
		Code: errcode.AncestryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("ancestry lookup failed for %d: %w", id, err),
	}
}

// Unresolvable reports whether err means that a single taxon has no usable
// lineage, as opposed to a failure of the provider itself.
func Unresolvable(err error) bool {
	return HasCode(err, errcode.UnknownTaxonError) ||
		HasCode(err, errcode.BrokenLineageError)
}

// HasCode reports whether err is a *gn.Error with the given code.
func HasCode(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}
