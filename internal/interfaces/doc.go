// Package interfaces documents the extension points of the application and
// holds compile-time checks that concrete types satisfy them.
//
// # Interface Categories
//
// ## Storage
//
//   - kvstore.Store: scoped string storage behind favorites
//     (internal/database ScopedStore, internal/kvstore MemStore)
//
// ## External Services
//
//   - directory.Source: country data (internal/restcountries)
//   - tasks.FlagFetcher: flag image download and cache (internal/flags)
//
// ## Background Work
//
//   - tasks.CatalogSource: catalog snapshot for bulk flag prefetching
//   - scheduler.Refresher: catalog reload target of the cron job
//   - scheduler.ScheduleSource: enabled flag and cron expression
//     (internal/settingsstore, scheduler.StaticSchedule)
//
// # Adding a New Country Source
//
//  1. Implement directory.Source:
//
//     type MirrorClient struct {
//         baseURL    string
//         httpClient *http.Client
//     }
//
//     func (c *MirrorClient) FetchAll(ctx context.Context) ([]entities.Country, error)
//     func (c *MirrorClient) FetchByCode(ctx context.Context, code string) (*entities.Country, error)
//     func (c *MirrorClient) FetchByCodes(ctx context.Context, codes []string) ([]entities.Country, error)
//     func (c *MirrorClient) SearchByName(ctx context.Context, text string) ([]entities.Country, error)
//
//  2. Add a compile-time check to checks.go:
//
//     var _ directory.Source = (*MirrorClient)(nil)
//
//  3. Pass it to directory.New in entrypoint.go
//
// # Adding a New Store Backend
//
// Implement Get and Set with kvstore.ErrNotFound for missing keys, then
// return it from the StoreProvider in entrypoint.go.
package interfaces
