// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"ticket-classifier/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	os.Exit(run(os.Args[1:], time.Now))
}

func run(args []string, now func() time.Time) int {
	if len(args) < 1 {
		help()
		return 1
	}

	switch args[0] {
	case "sync":
		cmd := pflag.NewFlagSet("sync", pflag.ContinueOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		reg, err := loadOrNew(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading registry: %v\n", err)
			return 1
		}
		reg.Sync(registry.Classification(), now())
		if err := reg.Save(*path); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving registry: %v\n", err)
			return 1
		}
		fmt.Printf("Synced %d activities into %s\n", len(registry.Classification()), *path)

	case "add":
		cmd := pflag.NewFlagSet("add", pflag.ContinueOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		id := cmd.String("id", "", "Activity ID (e.g., classify-ticket)")
		displayName := cmd.String("displayName", "", "Display Name (e.g., Classify Ticket)")
		description := cmd.String("description", "", "Description")
		category := cmd.String("category", registry.CategoryClassification, "Category")
		taskType := cmd.String("taskType", "", "Camunda Task Type")
		version := cmd.String("version", "1.0.0", "Version")
		status := cmd.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *id == "" || *displayName == "" || *taskType == "" {
			fmt.Fprintln(os.Stderr, "Error: id, displayName, and taskType are required for add.")
			cmd.Usage()
			return 1
		}
		reg, err := loadOrNew(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading registry: %v\n", err)
			return 1
		}
		if _, exists := reg.Find(*id); exists {
			fmt.Fprintf(os.Stderr, "Error adding activity: activity with ID %s already exists\n", *id)
			return 1
		}
		reg.Sync([]registry.Activity{{
			ID:                   *id,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *status,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              "30s",
			Workflows:            []string{},
			Tags:                 []string{},
		}}, now())
		if err := reg.Save(*path); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving registry: %v\n", err)
			return 1
		}
		fmt.Printf("Added activity: %s\n", *id)

	case "update":
		cmd := pflag.NewFlagSet("update", pflag.ContinueOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		id := cmd.String("id", "", "Activity ID to update")
		field := cmd.String("field", "", "Field to update (status, version, timeout, retries, ...)")
		value := cmd.String("value", "", "New value for the field")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *id == "" || *field == "" || *value == "" {
			fmt.Fprintln(os.Stderr, "Error: id, field, and value are required for update.")
			cmd.Usage()
			return 1
		}
		reg, err := registry.LoadRegistry(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading registry: %v\n", err)
			return 1
		}
		if err := reg.Update(*id, *field, *value, now()); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating activity: %v\n", err)
			return 1
		}
		if err := reg.Save(*path); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving registry: %v\n", err)
			return 1
		}
		fmt.Printf("Updated activity %s: %s = %s\n", *id, *field, *value)

	case "validate":
		cmd := pflag.NewFlagSet("validate", pflag.ContinueOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		reg, err := registry.LoadRegistry(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading registry: %v\n", err)
			return 1
		}
		if err := reg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			return 1
		}
		fmt.Println("Registry validation successful.")

	default:
		help()
		return 1
	}
	return 0
}

func loadOrNew(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if os.IsNotExist(err) {
		return &registry.ActivityRegistry{Version: "1.0.0", Activities: []registry.Activity{}}, nil
	}
	return reg, err
}

func help() {
	fmt.Println("Usage: registry-updater <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  sync      Write the classification activities into the registry")
	fmt.Println("  add       Add a new activity")
	fmt.Println("  update    Update an existing activity")
	fmt.Println("  validate  Validate the registry file")
	fmt.Println("Use 'registry-updater <command> --help' for more information on a command.")
}
