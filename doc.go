// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package vaultconf resolves application configuration and secrets from layered,
environment-specific sources and hands a schema-validated result to the caller.

Configuration is read from a default source and an environment-specific source
(see fileconf package) and merged so environment-specific values win. Secrets
are fetched from a remote key-value store (see vault package) with a bearer
credential bootstrapped from a local token file or a local agent. Both
pipelines end in the same schema gate:

	type Config struct {
	  Hello string `json:"HELLO"`
	  Port  string `json:"PORT,omitempty"`
	}

	func main() {
	  config, err := fileconf.ParseDotenvFiles(
	    fileconf.Options{Dir: "/etc/myapp", Env: "production"},
	    vaultconf.StructSchema[Config](),
	  )

	  if err != nil {
	    fmt.Println("Loading failed:", err)
	    return
	  }

	  client, err := vault.New(ctx,
	    vault.Config{
	      Address:      "https://vault.example.com",
	      TokenPath:    ".vault-token",
	      AgentAddress: "http://localhost:9876/token",
	    },
	  )

	  if err != nil {
	    fmt.Println("Vault bootstrap failed:", err)
	    return
	  }

	  secrets, err := vault.GetSecrets(ctx, client, "dev/myapp/kv/data/api",
	    vaultconf.StructSchema[Secrets]())

	  ...
	}

A schema is anything that implements Schema interface. StructSchema infers a
JSON Schema from a struct type, SchemaFunc adapts a plain function and
Transform remaps values after validation. Validation failures are never
swallowed: the structured ValidationError reaches the caller as is.
*/
package vaultconf
