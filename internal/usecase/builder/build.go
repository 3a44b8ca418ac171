package builder

import (
	"fmt"
	"strconv"

	"github.com/distribution/reference"

	"github.com/bnema/ephemera/internal/domain"
)

// Build validates the accumulated options and freezes them into a ContainerSpec.
// It returns the first error recorded by a With call, if any.
func (b Builder) Build() (*domain.ContainerSpec, error) {
	if b.err != nil {
		return nil, b.err
	}

	data := b.data.Clone()

	if data.Image == "" {
		return nil, invalid("Build", "image", "", "image is required")
	}
	image, err := normalizeImage(data.Image)
	if err != nil {
		return nil, invalid("Build", "image", data.Image, err.Error())
	}
	data.Image = image

	data.WaitStrategies = dedupWaitStrategies(data.WaitStrategies)

	for i, strategy := range data.WaitStrategies {
		if cfgErr := validateWaitStrategy(i, strategy, data.PortBindings); cfgErr != nil {
			return nil, cfgErr
		}
	}

	return domain.NewContainerSpec(data), nil
}

// normalizeImage returns the familiar form of ref with an explicit tag,
// so "redis" and "docker.io/library/redis:latest" build the same spec.
func normalizeImage(ref string) (string, error) {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return "", err
	}
	return reference.FamiliarString(reference.TagNameOnly(named)), nil
}

// dedupWaitStrategies keeps the first occurrence of every strategy.
func dedupWaitStrategies(strategies []domain.WaitStrategy) []domain.WaitStrategy {
	if len(strategies) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(strategies))
	out := make([]domain.WaitStrategy, 0, len(strategies))
	for _, s := range strategies {
		key := dedupKey(s)
		if key == "" {
			out = append(out, s)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// dedupKey is the strategy type, its description and its policy. An empty
// key opts out of deduplication.
func dedupKey(s domain.WaitStrategy) string {
	desc := s.String()
	if keyer, ok := s.(domain.WaitStrategyKeyer); ok {
		desc = keyer.DedupKey()
		if desc == "" {
			return ""
		}
	}
	return fmt.Sprintf("%T|%s|%+v", s, desc, s.Policy())
}

func validateWaitStrategy(index int, strategy domain.WaitStrategy, bindings []domain.PortBinding) *domain.ConfigurationError {
	field := "waitStrategies[" + strconv.Itoa(index) + "]"

	if validator, ok := strategy.(domain.WaitStrategyValidator); ok {
		if err := validator.Validate(); err != nil {
			return invalid("Build", field, strategy.String(), err.Error())
		}
	}

	policy := strategy.Policy()
	if policy.Timeout < 0 || policy.PollInterval < 0 {
		return invalid("Build", field, strategy.String(), "timeout and poll interval cannot be negative")
	}
	if policy.Timeout > 0 && policy.PollInterval > policy.Timeout {
		return invalid("Build", field, strategy.String(), "poll interval "+policy.PollInterval.String()+" exceeds timeout "+policy.Timeout.String())
	}

	requirer, ok := strategy.(domain.PortRequirer)
	if !ok {
		return nil
	}
	port := requirer.RequiredPort()
	for _, b := range bindings {
		if b.Container == port {
			return nil
		}
	}
	return invalid("Build", field, strategy.String(), "port "+port.String()+" is not published by any port binding")
}
