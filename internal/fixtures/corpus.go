package fixtures

import "fmt"

// Resume is a synthetic candidate résumé.
type Resume struct {
	Name string
	Text string
}

// JobCase is a job description and the résumé that must rank first for it.
type JobCase struct {
	JobDescription string
	WantTop        string
}

// Corpus is a set of résumés with job descriptions that each target one of them.
type Corpus struct {
	Resumes []Resume
	Cases   []JobCase
}

var specialties = []struct {
	role   string
	skills string
	body   string
}{
	{"Backend Engineer", "Python Django PostgreSQL", "Built REST services in Python with Django and PostgreSQL for payment processing."},
	{"Platform Engineer", "Kubernetes Helm Terraform", "Operated Kubernetes clusters, wrote Helm charts and managed infrastructure with Terraform."},
	{"Frontend Developer", "React TypeScript Redux", "Shipped single page applications in React and TypeScript with Redux state management."},
	{"Go Developer", "Golang gRPC concurrency", "Wrote Golang microservices exposing gRPC APIs with careful use of goroutines and channels."},
	{"Data Engineer", "Spark Airflow Kafka", "Designed batch pipelines in Spark orchestrated by Airflow and streaming ingestion with Kafka."},
	{"Machine Learning Engineer", "PyTorch transformers MLOps", "Trained PyTorch transformer models and deployed them with MLOps tooling."},
	{"Mobile Developer", "Swift SwiftUI iOS", "Built iOS applications in Swift and SwiftUI published on the App Store."},
	{"Android Developer", "Kotlin Jetpack Compose", "Developed Android apps in Kotlin using Jetpack Compose and coroutines."},
	{"Security Engineer", "penetration testing OWASP", "Ran penetration testing engagements and remediated OWASP top ten findings."},
	{"Database Administrator", "Oracle RMAN replication", "Administered Oracle databases, RMAN backups and cross-region replication."},
	{"QA Engineer", "Selenium Cypress automation", "Automated regression suites with Selenium and Cypress in CI pipelines."},
	{"Embedded Engineer", "firmware RTOS microcontrollers", "Wrote C firmware on RTOS for ARM microcontrollers and sensor boards."},
	{"Graphic Designer", "Photoshop Illustrator branding", "Created branding, print and web assets in Photoshop and Illustrator."},
	{"Technical Writer", "documentation DITA Markdown", "Wrote API documentation in DITA and Markdown for developer portals."},
	{"Site Reliability Engineer", "Prometheus Grafana incident", "Built Prometheus alerting and Grafana dashboards and led incident response."},
	{"Game Developer", "Unity C# shaders", "Built Unity games in C# including custom shaders and physics tuning."},
	{"Blockchain Developer", "Solidity Ethereum smart contracts", "Audited and wrote Solidity smart contracts deployed on Ethereum."},
	{"Cloud Architect", "AWS Lambda DynamoDB serverless", "Designed serverless systems on AWS Lambda and DynamoDB for retail clients."},
	{"Accountant", "IFRS auditing reconciliation", "Prepared IFRS statements, supported auditing and monthly reconciliation."},
	{"Nurse", "ICU patient triage", "Cared for ICU patients, handled triage and medication administration."},
}

// BuildCorpus returns one résumé per specialty and one job case targeting each.
func BuildCorpus() *Corpus {
	c := &Corpus{}
	for i, s := range specialties {
		name := fmt.Sprintf("candidate-%02d.pdf", i+1)
		c.Resumes = append(c.Resumes, Resume{
			Name: name,
			Text: fmt.Sprintf("%s. Skills: %s. %s Team player with strong communication.", s.role, s.skills, s.body),
		})
		c.Cases = append(c.Cases, JobCase{
			JobDescription: fmt.Sprintf("We are hiring a %s experienced with %s.", s.role, s.skills),
			WantTop:        name,
		})
	}
	return c
}

// Texts returns the résumé texts in corpus order.
func (c *Corpus) Texts() []string {
	out := make([]string, len(c.Resumes))
	for i, r := range c.Resumes {
		out[i] = r.Text
	}
	return out
}
