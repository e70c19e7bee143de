// package repositories provides the persistence layer for the local match
// cache: successful query → track resolutions remembered between runs so
// repeat imports skip remote searches they have already answered.
package repositories
