package domain

import (
	"bytes"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// LockRecord pins one formula to the tag and commit it resolved to. Commit may
// be empty in files written before remote checks ran.
type LockRecord struct {
	Key    FormulaKey
	Tag    string
	Commit string
}

// Lockfile is the persisted outcome of a successful resolution: one record per
// formula, ordered by FormulaKey. It is written once per run and never merged
// record-by-record with a previous version.
type Lockfile struct {
	Records []LockRecord
}

// NewLockfile builds a lockfile from a finished resolution mapping, ordered by
// FormulaKey.
func NewLockfile(formulas map[FormulaKey]*ResolvedFormula) *Lockfile {
	records := make([]LockRecord, 0, len(formulas))
	for key, f := range formulas {
		records = append(records, LockRecord{Key: key, Tag: f.Tag, Commit: f.Commit})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key.String() < records[j].Key.String()
	})
	return &Lockfile{Records: records}
}

// Find returns the record for the given key, if present.
func (l *Lockfile) Find(key FormulaKey) (LockRecord, bool) {
	for _, rec := range l.Records {
		if rec.Key == key {
			return rec, true
		}
	}
	return LockRecord{}, false
}

// References converts the pinned records into exact-version dependency
// references, the constraint source for pinned installs.
func (l *Lockfile) References() []DependencyReference {
	refs := make([]DependencyReference, 0, len(l.Records))
	for _, rec := range l.Records {
		refs = append(refs, DependencyReference{
			Key:        rec.Key,
			Constraint: Constraint{Op: OpEq, Version: Version(rec.Tag)},
		})
	}
	return refs
}

// Marshal renders the lockfile in the requirements format, one record per
// line: "<org>/<name>-formula==<tag> <commit>".
func (l *Lockfile) Marshal() []byte {
	var buf bytes.Buffer
	for _, rec := range l.Records {
		buf.WriteString(rec.Key.String())
		buf.WriteString(string(OpEq))
		buf.WriteString(rec.Tag)
		if rec.Commit != "" {
			buf.WriteByte(' ')
			buf.WriteString(rec.Commit)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Checksum returns a content fingerprint of the canonical serialization. Two
// lockfiles with equal checksums pin the same formulas to the same versions.
func (l *Lockfile) Checksum() uint64 {
	return xxhash.Sum64(l.Marshal())
}

// ParseLockfile parses the requirements format produced by Marshal. The commit
// column is optional; blank lines and "#" comments are skipped.
func ParseLockfile(data []byte) (*Lockfile, error) {
	lock := &Lockfile{}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 2 {
			err := zerr.With(ErrMalformedLockfile, "line", i+1)
			return nil, zerr.With(err, "record", line)
		}
		ref, err := ParseDependencyReference(fields[0])
		if err != nil {
			wrapped := zerr.With(zerr.Wrap(err, ErrMalformedLockfile.Error()), "line", i+1)
			return nil, zerr.With(wrapped, "record", line)
		}
		if ref.Constraint.Op != OpEq {
			err := zerr.With(ErrMalformedLockfile, "line", i+1)
			return nil, zerr.With(err, "record", line)
		}
		rec := LockRecord{Key: ref.Key, Tag: string(ref.Constraint.Version)}
		if len(fields) == 2 {
			rec.Commit = fields[1]
		}
		lock.Records = append(lock.Records, rec)
	}
	return lock, nil
}

// ChangeKind classifies one entry of a lockfile diff.
type ChangeKind int

const (
	// ChangeAdded marks a formula present in the fresh resolution only.
	ChangeAdded ChangeKind = iota
	// ChangeRemoved marks a formula present in the existing lockfile only.
	ChangeRemoved
	// ChangeVersion marks a formula whose pinned tag changed.
	ChangeVersion
)

// Change is one record-level difference between an existing lockfile and a
// freshly computed one.
type Change struct {
	Kind   ChangeKind
	Key    FormulaKey
	OldTag string
	NewTag string
}

// String renders the change for display.
func (c Change) String() string {
	switch c.Kind {
	case ChangeAdded:
		return "new entry " + c.Key.String() + "==" + c.NewTag
	case ChangeRemoved:
		return "deprecated entry " + c.Key.String() + "==" + c.OldTag
	default:
		return "unequal entries " + c.Key.String() + "==" + c.OldTag + " != " + c.Key.String() + "==" + c.NewTag
	}
}

// Diff compares the receiver (the existing lockfile) against a freshly
// computed one and returns the ordered change records. It is pure; neither
// lockfile is modified.
func (l *Lockfile) Diff(fresh *Lockfile) []Change {
	keys := make(map[FormulaKey]struct{}, len(l.Records)+len(fresh.Records))
	for _, rec := range l.Records {
		keys[rec.Key] = struct{}{}
	}
	for _, rec := range fresh.Records {
		keys[rec.Key] = struct{}{}
	}

	ordered := make([]FormulaKey, 0, len(keys))
	for key := range keys {
		ordered = append(ordered, key)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})

	var changes []Change
	for _, key := range ordered {
		old, hasOld := l.Find(key)
		cur, hasNew := fresh.Find(key)
		switch {
		case hasOld && !hasNew:
			changes = append(changes, Change{Kind: ChangeRemoved, Key: key, OldTag: old.Tag})
		case !hasOld && hasNew:
			changes = append(changes, Change{Kind: ChangeAdded, Key: key, NewTag: cur.Tag})
		case old.Tag != cur.Tag:
			changes = append(changes, Change{Kind: ChangeVersion, Key: key, OldTag: old.Tag, NewTag: cur.Tag})
		}
	}
	return changes
}
