// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"reflect"

	"github.com/bitmark-inc/ledgerstore/account"
	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/identifier"
)

// AccountEntry - one element of a multi account write
type AccountEntry struct {
	ID     identifier.Identifier
	Record *account.Record
}

// GetAccount - read an account record
//
// returns nil, nil if the account was never written
func (s *Store) GetAccount(id identifier.Identifier) (*account.Record, error) {
	d, err := s.database("get account")
	if nil != err {
		return nil, err
	}

	value, err := d.namespaces.Accounts.get(AccountKey(id))
	if nil != err {
		return nil, fault.NewEngineError("get account", err)
	}
	if nil == value {
		return nil, nil
	}
	return account.Packed(value).Unpack()
}

// HasAccount - check if an account exists
func (s *Store) HasAccount(id identifier.Identifier) (bool, error) {
	d, err := s.database("has account")
	if nil != err {
		return false, err
	}

	found, err := d.namespaces.Accounts.has(AccountKey(id))
	return found, fault.NewEngineError("has account", err)
}

// PutAccount - store an account record, replacing any previous one
func (s *Store) PutAccount(id identifier.Identifier, record *account.Record) error {
	d, err := s.database("put account")
	if nil != err {
		return err
	}

	packed, err := record.Pack()
	if nil != err {
		return err
	}

	d.log.Debugf("put account: %s  lamports: %d  data: %d bytes", id, record.Lamports, len(record.Data))
	return fault.NewEngineError("put account", d.namespaces.Accounts.put(AccountKey(id), packed))
}

// PutAccounts - store several accounts as one atomic write
//
// entries are applied in order so a later entry for the same identifier
// replaces an earlier one; if any record cannot be packed nothing is
// written
func (s *Store) PutAccounts(entries []AccountEntry) error {
	b := s.NewBatch()
	for _, e := range entries {
		err := b.PutAccount(e.ID, e.Record)
		if nil != err {
			b.Abort()
			return err
		}
	}
	return b.Commit()
}

// ForEachAccount - decode every account in identifier order
func (s *Store) ForEachAccount(f func(id identifier.Identifier, record *account.Record) error) error {
	d, err := s.database("list accounts")
	if nil != err {
		return err
	}

	return d.namespaces.Accounts.NewFetchCursor().Map(func(key Key, value []byte) error {
		record, err := account.Packed(value).Unpack()
		if nil != err {
			return err
		}
		return f(key.ID(), record)
	})
}

// GetProgramData - read a program binary
//
// returns nil, nil if nothing was stored for the identifier
func (s *Store) GetProgramData(id identifier.Identifier) ([]byte, error) {
	d, err := s.database("get program data")
	if nil != err {
		return nil, err
	}

	value, err := d.namespaces.ProgramData.get(ProgramDataKey(id))
	return value, fault.NewEngineError("get program data", err)
}

// HasProgramData - check if a program binary exists
func (s *Store) HasProgramData(id identifier.Identifier) (bool, error) {
	d, err := s.database("has program data")
	if nil != err {
		return false, err
	}

	found, err := d.namespaces.ProgramData.has(ProgramDataKey(id))
	return found, fault.NewEngineError("has program data", err)
}

// PutProgramData - store a program binary verbatim
func (s *Store) PutProgramData(id identifier.Identifier, data []byte) error {
	d, err := s.database("put program data")
	if nil != err {
		return err
	}

	d.log.Debugf("put program data: %s  %d bytes", id, len(data))
	return fault.NewEngineError("put program data", d.namespaces.ProgramData.put(ProgramDataKey(id), data))
}

// Accounts - the accounts namespace
func (s *Store) Accounts() (*Namespace, error) {
	d, err := s.database("accounts namespace")
	if nil != err {
		return nil, err
	}
	return d.namespaces.Accounts, nil
}

// ProgramData - the program data namespace
func (s *Store) ProgramData() (*Namespace, error) {
	d, err := s.database("program data namespace")
	if nil != err {
		return nil, err
	}
	return d.namespaces.ProgramData, nil
}

// Namespace - look up a namespace by its persisted name
func (s *Store) Namespace(name string) (*Namespace, error) {
	all, err := s.Namespaces()
	if nil != err {
		return nil, err
	}
	for _, ns := range all {
		if ns.name == name {
			return ns, nil
		}
	}
	return nil, fault.ErrUnknownNamespace
}

// Namespaces - all namespaces in declaration order
func (s *Store) Namespaces() ([]*Namespace, error) {
	d, err := s.database("namespaces")
	if nil != err {
		return nil, err
	}
	v := reflect.ValueOf(d.namespaces)
	result := make([]*Namespace, 0, v.NumField())
	for i := 0; i < v.NumField(); i += 1 {
		result = append(result, v.Field(i).Interface().(*Namespace))
	}
	return result, nil
}
