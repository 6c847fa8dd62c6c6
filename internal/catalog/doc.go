// Package catalog holds the static slideshow variant definitions: categories,
// entities, routes, placement rules, and call-to-action settings.
//
// Built-in variants are embedded TOML files. Custom catalogs follow the same
// schema and pass the same validation before the pipeline sees them.
package catalog
