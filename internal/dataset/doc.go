// Package dataset stores small record collections as pretty-printed JSON array
// files.
//
// Every operation loads or rewrites the whole file. Mutations take an exclusive
// advisory lock on a sibling ".lock" file and write through a temp file plus
// rename, so two runs against the same directory cannot interleave a
// read-modify-write cycle or leave a half-written array behind. Unparseable or
// invalid contents surface as services.ErrFormat; write failures as
// services.ErrIO.
package dataset
