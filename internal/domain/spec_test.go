package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainerSpec_IsolatedFromInput(t *testing.T) {
	data := SpecData{
		Image:    "redis:7",
		Command:  []string{"redis-server"},
		Env:      map[string]string{"A": "1"},
		Networks: []NetworkAttachment{{Network: "backend", Aliases: []string{"cache"}}},
	}

	spec := NewContainerSpec(data)

	data.Command[0] = "changed"
	data.Env["A"] = "changed"
	data.Networks[0].Aliases[0] = "changed"

	assert.Equal(t, []string{"redis-server"}, spec.Command())
	assert.Equal(t, "1", spec.Env()["A"])
	assert.Equal(t, []string{"cache"}, spec.Networks()[0].Aliases)
}

func TestContainerSpec_AccessorsReturnCopies(t *testing.T) {
	spec := NewContainerSpec(SpecData{
		Image:        "nginx",
		Labels:       map[string]string{"k": "v"},
		ExposedPorts: []Port{{Number: 80, Protocol: ProtocolTCP}},
	})

	spec.Labels()["k"] = "x"
	spec.ExposedPorts()[0].Number = 81

	assert.Equal(t, "v", spec.Labels()["k"])
	assert.Equal(t, 80, spec.ExposedPorts()[0].Number)
}

func TestContainerSpec_Defaults(t *testing.T) {
	spec := NewContainerSpec(SpecData{Image: "nginx"})

	assert.Equal(t, PullMissing, spec.PullPolicy())
	assert.Nil(t, spec.OutputConsumer())
	assert.Nil(t, spec.StartupCallback())
	assert.Empty(t, spec.WaitStrategies())
	assert.False(t, spec.AutoRemove())
}

func TestContainerSpec_EnvListSorted(t *testing.T) {
	spec := NewContainerSpec(SpecData{
		Image: "postgres:16",
		Env:   map[string]string{"POSTGRES_USER": "app", "POSTGRES_DB": "test", "A": ""},
	})

	assert.Equal(t, []string{"A=", "POSTGRES_DB=test", "POSTGRES_USER=app"}, spec.EnvList())
}

func TestContainerSpec_PublishedPort(t *testing.T) {
	http := Port{Number: 80, Protocol: ProtocolTCP}
	dns := Port{Number: 53, Protocol: ProtocolUDP}

	spec := NewContainerSpec(SpecData{
		Image:        "nginx",
		ExposedPorts: []Port{dns},
		PortBindings: []PortBinding{{Host: RandomHostPort(), Container: http}},
	})

	assert.True(t, spec.PublishedPort(http))
	assert.False(t, spec.PublishedPort(dns))
}
