// Package config holds the options of an analysis run and the optional
// .csprecommend YAML file with per-site request settings.
//
// Config is filled from command line flags and validated once, before any
// target is loaded. It is passed down explicitly; no package reads global
// state.
//
// # Configuration File
//
// The file is looked up in this order, and the first one found is used:
//   - the path given with --config
//   - ./.csprecommend
//   - ~/.csprecommend
//   - $XDG_CONFIG_HOME/csprecommend/config.yaml
//
// It holds request settings for pages behind a login, keyed by host:
//
//	defaults:
//	  user_agent: "Mozilla/5.0 (X11; Linux x86_64)"
//	sites:
//	  shop.example.com:
//	    cookie: "session=abc123"
//	    headers:
//	      Authorization: "Bearer token"
//	    self_host: "static.example.com"
//
// Site settings override the defaults field by field; header maps are merged
// key by key.
//
// # Usage
//
//	cfg := config.NewConfig()
//	cfg.Targets = []string{"https://shop.example.com/"}
//	if path := config.FindConfigFile(""); path != "" {
//	    if cfg.SiteConfigs, err = config.LoadConfigFile(path); err != nil {
//	        return err
//	    }
//	}
//	site := cfg.SiteFor(cfg.Targets[0])
package config
