package saver

import (
	"github.com/parquet-go/parquet-go"
)

// ParquetSaver writes records as Parquet; pointer columns are optional.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(records []Record, path string) error {
	return parquet.WriteFile(path, records)
}
