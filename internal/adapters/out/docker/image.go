package docker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"

	"github.com/bnema/ephemera/internal/domain"
)

type registryAuth struct {
	server   string
	username string
	password string
}

// pullMessage is one line of the JSON progress stream returned by a pull.
type pullMessage struct {
	Status      string `json:"status"`
	Error       string `json:"error"`
	ErrorDetail *struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// FindLocalImage returns the local image matching ref, or nil when there is none.
func (r *Runtime) FindLocalImage(ctx context.Context, ref string) (*domain.CachedImage, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "FindLocalImage",
		"image":               ref,
	})
	log := zerowrap.FromCtx(ctx)

	images, err := r.client.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return nil, log.WrapErr(err, "failed to list images")
	}
	if len(images) == 0 {
		log.Debug().Msg("image not found locally")
		return nil, nil
	}

	img := images[0]
	return &domain.CachedImage{
		ID:       img.ID,
		RepoTags: img.RepoTags,
		Created:  time.Unix(img.Created, 0),
	}, nil
}

// PullImage pulls an image.
func (r *Runtime) PullImage(ctx context.Context, ref string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "PullImage",
		"image":               ref,
	})
	log := zerowrap.FromCtx(ctx)

	opts := image.PullOptions{}
	if auth, ok := r.authFor(ref); ok {
		encoded, err := encodeAuth(auth)
		if err != nil {
			return log.WrapErr(err, "failed to encode registry auth")
		}
		opts.RegistryAuth = encoded
		log.Debug().Str("server_address", auth.server).Msg("pulling with registry credentials")
	}

	log.Info().Msg("pulling image")

	reader, err := r.client.ImagePull(ctx, ref, opts)
	if err != nil {
		return log.WrapErr(err, "failed to pull image")
	}
	defer reader.Close()

	// The pull is only complete once the stream is drained.
	if err := drainPull(reader); err != nil {
		return log.WrapErr(err, "failed to read pull response")
	}

	log.Info().Msg("image pulled successfully")
	return nil
}

// authFor returns the credentials configured for the registry of ref.
func (r *Runtime) authFor(ref string) (*registryAuth, bool) {
	if r.auth == nil {
		return nil, false
	}
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return nil, false
	}
	if reference.Domain(named) != r.auth.server {
		return nil, false
	}
	return r.auth, true
}

// encodeAuth uses standard base64, which both Docker and Podman accept.
func encodeAuth(auth *registryAuth) (string, error) {
	raw, err := json.Marshal(registry.AuthConfig{
		Username:      auth.username,
		Password:      auth.password,
		ServerAddress: auth.server,
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// drainPull reads the progress stream to the end and returns the first error it reports.
func drainPull(stream io.Reader) error {
	dec := json.NewDecoder(stream)
	for {
		var msg pullMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if msg.ErrorDetail != nil && msg.ErrorDetail.Message != "" {
			return errors.New(msg.ErrorDetail.Message)
		}
		if msg.Error != "" {
			return errors.New(msg.Error)
		}
	}
}
