package failover_test

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"failover-constructor/internal/failover"
)

func ExampleParse() {
	d, err := failover.Parse(map[string]any{
		"class":   []any{"Sub1", "Failover"},
		"err_arg": "cause",
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(d)

	d, err = failover.Parse("Failover")
	if err != nil {
		panic(err)
	}

	out, err := yaml.Marshal(d)
	if err != nil {
		panic(err)
	}

	fmt.Print(string(out))
	// Output:
	// [Sub1 Failover] (err_arg="cause")
	// Failover
}
