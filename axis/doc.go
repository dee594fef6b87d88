// Package axis defines the numeric contracts shared by the tree, its
// distance metrics and its persistence formats.
//
// A coordinate type is any of the float or integer kinds listed in [Axis].
// Integer coordinates are interpreted as fixed-point values (see package
// fixed); all arithmetic on them saturates at the type's maximum so that
// distances never wrap around.
package axis
