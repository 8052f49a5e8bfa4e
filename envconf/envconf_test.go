package envconf_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/iph0/vaultconf"
	"github.com/iph0/vaultconf/envconf"
)

func environ() []string {
	return []string{
		"TEST_FOO=bar",
		"TEST_MOO=jar=with=equals",
		"TEST_ZOO=",
		"OTHER=skip",
		"MALFORMED",
	}
}

func TestLoad(t *testing.T) {
	loader := &envconf.Loader{Environ: environ}
	tRecord, err := loader.Load("^TEST_")

	if err != nil {
		t.Error(err)
		return
	}

	eRecord := vaultconf.Record{
		"TEST_FOO": "bar",
		"TEST_MOO": "jar=with=equals",
		"TEST_ZOO": "",
	}

	if !reflect.DeepEqual(tRecord, eRecord) {
		t.Errorf("unexpected record returned: %#v", tRecord)
	}
}

func TestLoadStripPrefix(t *testing.T) {
	loader := &envconf.Loader{
		Environ:     environ,
		StripPrefix: true,
	}

	tRecord, err := loader.Load("^TEST_")

	if err != nil {
		t.Error(err)
		return
	}

	eRecord := vaultconf.Record{
		"FOO": "bar",
		"MOO": "jar=with=equals",
		"ZOO": "",
	}

	if !reflect.DeepEqual(tRecord, eRecord) {
		t.Errorf("unexpected record returned: %#v", tRecord)
	}
}

func TestLoadProcessEnv(t *testing.T) {
	t.Setenv("VAULTCONF_ENVCONF_TEST", "value")

	tRecord, err := envconf.NewLoader().Load("^VAULTCONF_ENVCONF_TEST$")

	if err != nil {
		t.Error(err)
		return
	}

	if tRecord["VAULTCONF_ENVCONF_TEST"] != "value" {
		t.Errorf("unexpected record returned: %#v", tRecord)
	}
}

func TestErrors(t *testing.T) {
	loader := &envconf.Loader{Environ: environ}

	t.Run("empty_pattern",
		func(t *testing.T) {
			_, err := loader.Load("")

			if err == nil {
				t.Error("no error happened")
			} else if !strings.Contains(err.Error(), "empty pattern specified") {
				t.Error("other error happened:", err)
			}
		},
	)

	t.Run("invalid_pattern",
		func(t *testing.T) {
			_, err := loader.Load("^TE[ST_")

			if err == nil {
				t.Error("no error happened")
			} else if !strings.Contains(err.Error(), "error parsing regexp") {
				t.Error("other error happened:", err)
			}
		},
	)
}
