package membership

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/matzehuels/exhibitnet/pkg/cache"
)

// Opener fetches the raw bytes of a table by URI.
//
// Implementations must be safe for concurrent use; both tables are fetched
// in parallel.
type Opener interface {
	Open(ctx context.Context, uri string) ([]byte, error)
}

// S3Options configures access to S3-compatible object storage.
// Empty fields fall back to the AWS SDK's default credential chain.
type S3Options struct {
	Region   string `json:"region,omitempty" toml:"region"`
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint"`
}

// Location is a parsed table URI.
type Location struct {
	Scheme string // "file" or "s3"
	Bucket string
	Key    string // object key or local path
}

// ParseLocation splits uri into its scheme, bucket and key. Anything that is
// not an s3:// URI is treated as a local path.
func ParseLocation(uri string) (Location, error) {
	if uri == "" {
		return Location{}, errors.New("empty source uri")
	}
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return Location{Scheme: "file", Key: strings.TrimPrefix(uri, "file://")}, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid s3 uri %q: want s3://bucket/key", uri)
	}
	return Location{Scheme: "s3", Bucket: bucket, Key: key}, nil
}

// SourceOpener reads local files and S3 objects.
// The S3 client is created on first use.
type SourceOpener struct {
	S3 S3Options

	once   sync.Once
	client *s3.Client
	err    error
}

// NewSourceOpener creates an opener for local paths and s3:// URIs.
func NewSourceOpener(opts S3Options) *SourceOpener {
	return &SourceOpener{S3: opts}
}

// Open reads the table at uri.
func (o *SourceOpener) Open(ctx context.Context, uri string) ([]byte, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}
	if loc.Scheme == "file" {
		return os.ReadFile(loc.Key)
	}

	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = cache.RetryWithBackoff(ctx, func() error {
		data, err = getObject(ctx, client, loc.Bucket, loc.Key)
		return err
	})
	return data, err
}

func (o *SourceOpener) s3Client(ctx context.Context) (*s3.Client, error) {
	o.once.Do(func() {
		var loadOpts []func(*config.LoadOptions) error
		if o.S3.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(o.S3.Region))
		}
		if o.S3.Endpoint != "" {
			loadOpts = append(loadOpts, config.WithBaseEndpoint(o.S3.Endpoint))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			o.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		o.client = s3.NewFromConfig(cfg, func(opts *s3.Options) {
			// MinIO and other self-hosted stores need path-style addressing.
			opts.UsePathStyle = o.S3.Endpoint != ""
		})
	})
	return o.client, o.err
}

func getObject(ctx context.Context, client *s3.Client, bucket, key string) ([]byte, error) {
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, os.ErrNotExist)
		}
		return nil, cache.Retryable(fmt.Errorf("s3://%s/%s: %w", bucket, key, err))
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("read s3://%s/%s: %w", bucket, key, err))
	}
	return data, nil
}

// CachingOpener serves tables from a cache and fills it on a miss.
type CachingOpener struct {
	Inner   Opener
	Cache   cache.Cache
	Keyer   cache.Keyer
	Kind    func(uri string) string
	Refresh bool

	// OnLookup, when set, is told whether each lookup hit.
	OnLookup func(uri string, hit bool)
}

// Open returns the cached table for uri or fetches it from Inner.
// Local files are always read directly.
func (o *CachingOpener) Open(ctx context.Context, uri string) ([]byte, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}
	if loc.Scheme == "file" || o.Cache == nil {
		return o.Inner.Open(ctx, uri)
	}

	kind := ""
	if o.Kind != nil {
		kind = o.Kind(uri)
	}
	keyer := o.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.TableKey(uri, cache.TableKeyOpts{Kind: kind})
	if !o.Refresh {
		if data, ok, _ := o.Cache.Get(ctx, key); ok {
			o.notify(uri, true)
			return data, nil
		}
	}
	o.notify(uri, false)

	data, err := o.Inner.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	_ = o.Cache.Set(ctx, key, data, cache.TTLTable)
	return data, nil
}

func (o *CachingOpener) notify(uri string, hit bool) {
	if o.OnLookup != nil {
		o.OnLookup(uri, hit)
	}
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, uri string) ([]byte, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, uri string) ([]byte, error) { return f(ctx, uri) }
