package core

import (
	"bytes"
	"fmt"
	"os"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
	"gopkg.in/yaml.v3"
)

// datasetFile is the on-disk layout of a dataset file.
type datasetFile struct {
	Datasets []schema.MetricDataset `yaml:"datasets"`
}

// LoadDatasetsFile reads datasets from a YAML file.
// Unknown keys are rejected so typos do not silently drop data.
func LoadDatasetsFile(path string) ([]schema.MetricDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read dataset file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file datasetFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("cannot parse dataset file %s: %w", path, err)
	}
	if len(file.Datasets) == 0 {
		return nil, &schema.InvalidDatasetError{Reason: fmt.Sprintf("%s has no datasets", path)}
	}
	return file.Datasets, nil
}

// DatasetLoader resolves the registry from a dataset file, inline config or built-ins.
type DatasetLoader struct{}

var _ contract.RegistryLoader = DatasetLoader{} // Compile-time check

// Load implements contract.RegistryLoader.
func (DatasetLoader) Load(path string, inline []schema.MetricDataset) (contract.MetricRegistry, error) {
	datasets := inline
	if path != "" {
		var err error
		if datasets, err = LoadDatasetsFile(path); err != nil {
			return nil, err
		}
	}
	if len(datasets) == 0 {
		return DefaultRegistry(), nil
	}
	reg, err := NewRegistry(datasets...)
	if err != nil {
		return nil, err
	}
	return reg, nil
}
