// Package catalog declares the repositories of the fleet and the links each one installs.
//
// Declarations are compiled in. New validates them once per process and keeps
// only enabled entries; every fleet operation reads the resulting Catalog.
package catalog
