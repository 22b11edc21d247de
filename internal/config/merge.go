package config

// Merge overlays env on top of file. Environment values win when set;
// zero-value env fields fall through to the file config.
func Merge(file, env Config) Config {
	result := file

	if env.Model != "" {
		result.Model = env.Model
	}
	if env.OpenAIBaseURL != "" {
		result.OpenAIBaseURL = env.OpenAIBaseURL
	}
	if env.SecretName != "" {
		result.SecretName = env.SecretName
	}
	if env.AnthropicSecretName != "" {
		result.AnthropicSecretName = env.AnthropicSecretName
	}
	if env.Region != "" {
		result.Region = env.Region
	}
	if env.LogLevel != "" {
		result.LogLevel = env.LogLevel
	}

	return result
}

// Resolve loads the file at path, overlays the environment, applies defaults
// and validates the result.
func Resolve(path string) (Config, error) {
	file, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	cfg := WithDefaults(Merge(*file, FromEnv()))
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
