package main

import (
	"github.com/ovh/layersync/engine/awsclient"
	"github.com/ovh/layersync/engine/layer"
	"github.com/ovh/layersync/engine/vcs/github"
)

// Configuration contains layersync configuration and toml description
type Configuration struct {
	Log struct {
		Level      string   `toml:"level" default:"info" comment:"Log Level: debug, info, warning, error" json:"level"`
		Format     string   `toml:"format" default:"text" comment:"Stderr format: text, json, discard" json:"format"`
		TextFields []string `toml:"textFields" default:"" json:"textFields" commented:"true" comment:"Can be used only with text format. Empty values = all fields will be displayed, example: [\"region\",\"phase\"]"`
	} `toml:"log" comment:"#####################\n Logs Settings \n####################" json:"log"`

	RepoOwner    string `toml:"repoOwner" default:"" comment:"Owner of the repository building the layer" json:"repoOwner"`
	Repo         string `toml:"repo" default:"" comment:"Repository building the layer" json:"repo"`
	Token        string `toml:"token" default:"" comment:"GitHub token, used to read artifacts and to push the report" json:"token"`
	Layer        string `toml:"layer" default:"" comment:"Name of the layer. Empty means the repository name" json:"layer"`
	ArtifactName string `toml:"artifactName" default:"" comment:"Only consider artifacts with this name. Empty means any artifact" json:"artifactName"`
	Regions      string `toml:"regions" default:"" comment:"Comma separated list of regions, ie. eu-west-1,us-east-1" json:"regions"`
	BucketPrefix string `toml:"bucketPrefix" default:"" comment:"Buckets are named <bucketPrefix><region>" json:"bucketPrefix"`
	Description  string `toml:"description" default:"" comment:"Description of the layer, written at the top of the report" json:"description"`
	Commit       bool   `toml:"commit" default:"false" comment:"Commit and push the report. When false the report is printed on stdout" json:"commit"`
	ReportFile   string `toml:"reportFile" default:"README.md" comment:"Report file, relative to workdir" json:"reportFile"`
	Workdir      string `toml:"workdir" default:"." comment:"Git working copy where the report is committed" json:"workdir"`
	SpoolDir     string `toml:"spoolDir" default:"" comment:"Directory of the downloaded archive. Empty means the system temporary directory" json:"spoolDir"`
	Force        bool   `toml:"force" default:"false" comment:"Publish even if every region is up to date" json:"force"`
	Parallel     int    `toml:"parallel" default:"4" comment:"Maximum number of regions processed concurrently" json:"parallel"`

	Upload struct {
		PartSizeMB  int64 `toml:"partSizeMB" default:"5" comment:"Size of each multipart chunk, minimum 5" json:"partSizeMB"`
		Concurrency int   `toml:"concurrency" default:"2" comment:"Number of parts uploaded concurrently in each region" json:"concurrency"`
		ChunkSizeKB int   `toml:"chunkSizeKB" default:"256" comment:"Size of the chunks shared between regions" json:"chunkSizeKB"`
		Depth       int   `toml:"depth" default:"8" comment:"Number of chunks buffered for each region" json:"depth"`
	} `toml:"upload" comment:"######################\n Upload Settings \n######################" json:"upload"`

	LayerOptions layer.Options    `toml:"layerOptions" comment:"######################\n Layer Settings \n######################" json:"layerOptions"`
	AWS          awsclient.Config `toml:"aws" comment:"######################\n AWS Settings \n######################" json:"aws"`
	GitHub       github.Config    `toml:"github" comment:"######################\n GitHub Settings \n######################" json:"github"`
}
