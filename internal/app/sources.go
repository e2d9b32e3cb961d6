package app

// DefaultSources is the seed corpus: coverage of the May 2024 Porto Alegre floods.
var DefaultSources = []string{
	"https://g1.globo.com/rs/rio-grande-do-sul/noticia/2024/05/15/levantamento-enchente-porto-alegre-bairros-e-moradores.ghtml",
	"https://www.cnnbrasil.com.br/nacional/enchente-em-porto-alegre-veja-imagens-da-cidade-apos-queda-no-nivel-da-agua/",
	"https://www.bbc.com/portuguese/articles/cw00d51k5rlo",
	"https://gauchazh.clicrbs.com.br/ultimas-noticias/tag/alagamentos/",
	"https://www.poder360.com.br/infraestrutura/especialistas-listam-medidas-para-evitar-enchentes-em-porto-alegre/",
	"https://www.camarapoa.rs.gov.br/noticias/cece-discute-sobre-obras-nas-escolas-atingidas-pelas-enchentes",
	"https://www.metropoles.com/brasil/sobe-para-179-o-numero-de-mortos-em-razao-das-enchentes-no-rs",
	"https://gauchazh.clicrbs.com.br/economia/conteudo-de-marca/2024/06/pequenos-negocios-podem-receber-ate-15-mil-reais-para-custos-com-alagamentos-clxdskw6i01420144abiw0pvv.html",
	"https://agenciabrasil.ebc.com.br/geral/noticia/2024-05/inundacao-em-porto-alegre-foi-falta-de-manutencao-dizem-especialistas",
	"https://www.observatoriodasmetropoles.net.br/nucleo-porto-alegre-analisa-os-impactos-das-enchentes-na-populacao-pobre-e-negra-do-rio-grande-do-sul/",
	"https://gauchazh.clicrbs.com.br/porto-alegre/noticia/2024/05/numero-de-abrigos-para-atingidos-pela-enchente-cai-em-porto-alegre-clwdpjnrp00vg0148idb5123y.html",
	"https://gauchazh.clicrbs.com.br/porto-alegre/noticia/2024/05/diversos-bairros-de-porto-alegre-registram-inundacao-dmae-fala-em-chuva-alem-do-que-os-modelos-previam-clwjbt6rh00b1014xqkk45ji9.html",
}
