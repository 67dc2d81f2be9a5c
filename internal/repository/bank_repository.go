// Package repository provides data access for the application: the
// CSV-backed digital bank store and the Redis-backed bot state store.
package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"atb/backend/internal/model"
	"atb/backend/internal/util"

	"github.com/google/uuid"
)

var bankHeader = []string{"id", "name", "ref", "qty", "value"}

// Rows written the first time the store file is created
var bankSeed = []model.BankAsset{
	{ID: "bank_1", Name: "Lamborghini", Ref: "LAM-001", Qty: 1, Value: 250000},
	{ID: "bank_2", Name: "A Seat in the Kop", Ref: "KOP-1892", Qty: 1, Value: 50000},
	{ID: "bank_3", Name: "Crypto-currency", Ref: "CRY-001", Qty: 3, Value: 15000},
}

// BankRepository persists digital bank assets to a CSV file
type BankRepository struct {
	mu   sync.Mutex
	path string
}

// NewBankRepository creates the store, seeding the CSV file if missing
func NewBankRepository(path string) (*BankRepository, error) {
	r := &BankRepository{path: path}
	if err := r.ensure(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *BankRepository) ensure() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create bank data dir: %w", err)
	}
	if _, err := os.Stat(r.path); err == nil {
		return nil
	}
	return r.write(bankSeed)
}

func (r *BankRepository) read() ([]model.BankAsset, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bank csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read bank csv: %w", err)
	}

	var assets []model.BankAsset
	for i, row := range rows {
		if i == 0 || len(row) < 5 {
			continue
		}
		qty, err := strconv.Atoi(row[3])
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}
		assets = append(assets, model.BankAsset{
			ID:    row[0],
			Name:  row[1],
			Ref:   row[2],
			Qty:   qty,
			Value: value,
		})
	}
	return assets, nil
}

func (r *BankRepository) write(assets []model.BankAsset) error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("failed to create bank csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(bankHeader); err != nil {
		return err
	}
	for _, a := range assets {
		record := []string{
			a.ID, a.Name, a.Ref,
			strconv.Itoa(a.Qty),
			strconv.FormatFloat(a.Value, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns all bank assets
func (r *BankRepository) List() ([]model.BankAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// Add appends a new asset, generating an id when none is provided
func (r *BankRepository) Add(asset model.BankAsset) (model.BankAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if asset.ID == "" {
		asset.ID = "bank_" + uuid.New().String()
	}

	assets, err := r.read()
	if err != nil {
		return model.BankAsset{}, err
	}
	assets = append(assets, asset)
	if err := r.write(assets); err != nil {
		return model.BankAsset{}, err
	}
	return asset, nil
}

// Update merges the provided fields into an existing asset
func (r *BankRepository) Update(id string, update model.BankAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assets, err := r.read()
	if err != nil {
		return err
	}

	for i := range assets {
		if assets[i].ID != id {
			continue
		}
		if update.Name != "" {
			assets[i].Name = update.Name
		}
		if update.Ref != "" {
			assets[i].Ref = update.Ref
		}
		if update.Qty != 0 {
			assets[i].Qty = update.Qty
		}
		if update.Value != 0 {
			assets[i].Value = update.Value
		}
		return r.write(assets)
	}
	return util.ErrNotFound(fmt.Sprintf("Bank asset %s not found", id))
}

// Delete removes an asset by id; deleting an unknown id is a no-op
func (r *BankRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assets, err := r.read()
	if err != nil {
		return err
	}

	out := assets[:0]
	for _, a := range assets {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return r.write(out)
}
