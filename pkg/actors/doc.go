// Package actors contains the built-in actor types of flowbench.
//
// Every type is assembled from the building blocks of package actor and registered
// under its type name by RegisterAll.
package actors
