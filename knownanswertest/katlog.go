package knownanswertest

// Copyright (c) 2025 Colin McRae

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/predrag3141/quadclass/classgroup"
	"github.com/predrag3141/quadclass/factoring"
	"github.com/predrag3141/quadclass/util"
)

const logPrefix = "kat"

// KATLog writes class group structures as known answers, one JSON object per line, and
// a summary of the run when it is closed.
type KATLog struct {
	path    string
	file    *os.File
	writer  *bufio.Writer
	summary Summary
}

// Summary counts the discriminants recorded by a KATLog, by class number
type Summary struct {
	NumDiscriminants int           `json:"num_discriminants"`
	ByClassNumber    map[int64]int `json:"by_class_number"`
	MaxClassNumber   int64         `json:"max_class_number"`
	MaxDiscriminant  *big.Int      `json:"max_discriminant"`
}

// NewKATLog creates the file name in dir and returns a KATLog writing to it
func NewKATLog(dir, name string) (*KATLog, error) {
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("NewKATLog: could not create %s: %w", path, err)
	}
	return &KATLog{
		path:    path,
		file:    file,
		writer:  bufio.NewWriter(file),
		summary: Summary{ByClassNumber: make(map[int64]int)},
	}, nil
}

// Path returns the path of the file kl writes to
func (kl *KATLog) Path() string {
	return kl.path
}

// Record writes s as one line
func (kl *KATLog) Record(s *classgroup.Structure) error {
	data, err := s.JSON()
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	if _, err = kl.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("Record: could not write to %s: %w", kl.path, err)
	}
	kl.summary.NumDiscriminants++
	kl.summary.ByClassNumber[s.ClassNumber]++
	if s.ClassNumber > kl.summary.MaxClassNumber {
		kl.summary.MaxClassNumber = s.ClassNumber
		kl.summary.MaxDiscriminant = new(big.Int).Set(s.Discriminant)
	}
	return nil
}

// Close writes the summary next to the records, as <path>.summary, and closes the file
func (kl *KATLog) Close() (*Summary, error) {
	if err := kl.writer.Flush(); err != nil {
		util.Errorf(logPrefix, "could not flush %s, dropping its summary: %v", kl.path, err)
		_ = kl.file.Close()
		return nil, fmt.Errorf("Close: could not flush %s: %w", kl.path, err)
	}
	if err := kl.file.Close(); err != nil {
		return nil, fmt.Errorf("Close: could not close %s: %w", kl.path, err)
	}
	data, err := util.MarshalJSONIndent(&kl.summary, "  ")
	if err != nil {
		return nil, fmt.Errorf("Close: could not marshal summary: %w", err)
	}
	if err = os.WriteFile(kl.path+".summary", data, 0o644); err != nil {
		return nil, fmt.Errorf("Close: could not write summary: %w", err)
	}
	util.Logf(
		logPrefix, "%s: %d discriminants, largest class number %d",
		kl.path, kl.summary.NumDiscriminants, kl.summary.MaxClassNumber,
	)
	return &kl.summary, nil
}

// ReadKATLog returns the structures recorded in the file at path
func ReadKATLog(path string) ([]*classgroup.Structure, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadKATLog: could not open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()
	retVal := make([]*classgroup.Structure, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var s classgroup.Structure
		if err = util.UnmarshalJSON(scanner.Bytes(), &s); err != nil {
			util.Errorf(logPrefix, "%s: line %d is not a class group structure", path, len(retVal)+1)
			return nil, fmt.Errorf("ReadKATLog: could not parse line %d of %s: %w", len(retVal)+1, path, err)
		}
		retVal = append(retVal, &s)
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("ReadKATLog: could not read %s: %w", path, err)
	}
	return retVal, nil
}

// RecordRange records the structure of the class group of every fundamental
// discriminant D with lo <= D <= hi, skipping D = 1
func (kl *KATLog) RecordRange(lo, hi int64) error {
	numRecorded := 0
	defer func() {
		util.Noticef(logPrefix, "recorded %d fundamental discriminants in [%d, %d]", numRecorded, lo, hi)
	}()
	for D := lo; D <= hi; D++ {
		bigD := big.NewInt(D)
		if (D == 1) || !factoring.IsFundamental(bigD) {
			continue
		}
		g, err := classgroup.New(bigD)
		if err != nil {
			return fmt.Errorf("RecordRange: could not create class group: %w", err)
		}
		s, err := g.Structure()
		if err != nil {
			return fmt.Errorf("RecordRange: %w", err)
		}
		if err = kl.Record(s); err != nil {
			return fmt.Errorf("RecordRange: %w", err)
		}
		numRecorded++
	}
	return nil
}
