package source

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/buildinfo"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/graph"
	"github.com/matzehuels/depviz/pkg/httputil"
)

// DefaultRegistryURL is the npm public registry.
const DefaultRegistryURL = "https://registry.npmjs.org"

// httpTimeout bounds every registry request. A call that exceeds it fails
// rather than hangs; failed calls are not retried.
const httpTimeout = 10 * time.Second

// Registry reads dependencies from an npm-compatible package registry.
// One HTTP GET is issued per package; failures surface immediately as
// lookup errors and the builder absorbs them as failed nodes.
type Registry struct {
	base string
	http *http.Client
	log  *log.Logger
}

// NewRegistry creates a Registry source. An empty base falls back to
// [DefaultRegistryURL]; a nil logger falls back to [log.Default].
func NewRegistry(base string, logger *log.Logger) *Registry {
	if base == "" {
		base = DefaultRegistryURL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		base: base,
		http: httputil.NewClient(httpTimeout, "depviz/"+buildinfo.Version),
		log:  logger,
	}
}

// FetchDirect fetches name's metadata from the registry and returns the
// dependency mapping of the selected version.
//
// Version selection prefers the registry's declared latest version when it
// has dependencies. Otherwise all known versions are scanned in descending
// lexicographic order and the first with a non-empty dependency mapping is
// used, with a diagnostic note that a non-latest version was chosen. When
// no version declares dependencies the result is an empty mapping.
func (r *Registry) FetchDirect(ctx context.Context, name string) (graph.Dependencies, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+"/"+name, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLookup, err, "build request for package %s", name)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLookup, err, "fetch package %s", name)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeLookup, "package %s not found in registry", name)
	default:
		return nil, errors.New(errors.ErrCodeLookup, "fetch package %s: status %d", name, resp.StatusCode)
	}

	var data registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLookup, err, "decode registry response for %s", name)
	}

	_, deps := r.selectVersion(name, &data)
	return deps, nil
}

// selectVersion applies the version selection policy and returns the chosen
// version string with its dependency mapping.
func (r *Registry) selectVersion(name string, data *registryResponse) (string, graph.Dependencies) {
	latest := data.DistTags.Latest
	if v, ok := data.Versions[latest]; ok && len(v.Dependencies) > 0 {
		return latest, graph.Dependencies(v.Dependencies)
	}

	versions := slices.Sorted(maps.Keys(data.Versions))
	for i := len(versions) - 1; i >= 0; i-- {
		if deps := data.Versions[versions[i]].Dependencies; len(deps) > 0 {
			r.log.Infof("package %s: using dependencies from version %s (latest declares none)", name, versions[i])
			return versions[i], graph.Dependencies(deps)
		}
	}

	// No version declares dependencies.
	if _, ok := data.Versions[latest]; ok && latest != "" {
		return latest, graph.Dependencies{}
	}
	if len(versions) > 0 {
		return versions[0], graph.Dependencies{}
	}
	return "", graph.Dependencies{}
}

type registryResponse struct {
	Name     string                    `json:"name"`
	DistTags distTags                  `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Dependencies map[string]string `json:"dependencies"`
}
